// Package ui renders live scan progress in the terminal.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	prog "github.com/fenilsonani/dedup/internal/progress"
	"github.com/fenilsonani/dedup/internal/ui/styles"
	"github.com/fenilsonani/dedup/pkg/utils"
)

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// scanModel is the bubbletea model for the live scan view.
type scanModel struct {
	spinner spinner.Model
	bar     progress.Model
	cancel  context.CancelFunc
	updates <-chan prog.ScanProgress

	current   prog.ScanProgress
	cancelled bool
	done      bool
}

type progressMsg prog.ScanProgress

type progressClosedMsg struct{}

// RunScan displays live progress until the scan completes. cancel is
// invoked when the user quits early; the caller is responsible for
// draining the engine afterwards.
func RunScan(cancel context.CancelFunc, updates <-chan prog.ScanProgress) error {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	m := scanModel{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		cancel:  cancel,
		updates: updates,
	}

	_, err := tea.NewProgram(m).Run()
	return err
}

func waitForProgress(updates <-chan prog.ScanProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return progressClosedMsg{}
		}
		return progressMsg(p)
	}
}

// Init implements tea.Model
func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForProgress(m.updates))
}

// Update implements tea.Model
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancelled = true
			m.cancel()
			return m, nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progressMsg:
		m.current = prog.ScanProgress(msg)
		if m.current.Phase == prog.PhaseComplete {
			m.done = true
			return m, tea.Quit
		}
		return m, waitForProgress(m.updates)

	case progressClosedMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model
func (m scanModel) View() string {
	var b strings.Builder
	p := m.current

	b.WriteString(styles.TitleStyle.Render("Scanning for duplicates"))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(styles.SuccessStyle.Render("Scan complete"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.spinner.View())
	switch p.Phase {
	case prog.PhaseHashing:
		b.WriteString(" Hashing candidates ")
	case prog.PhaseVerifying:
		b.WriteString(" Verifying byte-for-byte ")
	default:
		b.WriteString(" Walking filesystem ")
	}
	if !p.StartTime.IsZero() {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("(%s)", time.Since(p.StartTime).Round(time.Second))))
	}
	b.WriteString("\n\n")

	if p.CurrentPath != "" {
		b.WriteString(styles.DimStyle.Render("Current: "))
		b.WriteString(styles.FilePathStyle.Render(truncatePath(p.CurrentPath, 70)))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("  Files seen:  %s (%s)\n",
		styles.BoldStyle.Render(fmt.Sprintf("%d", p.FilesSeen)),
		styles.FileSizeStyle.Render(utils.FormatBytes(p.BytesSeen))))
	b.WriteString(fmt.Sprintf("  Candidates:  %s\n", styles.BoldStyle.Render(fmt.Sprintf("%d", p.Candidates))))
	b.WriteString(fmt.Sprintf("  Groups:      %s\n", styles.BoldStyle.Render(fmt.Sprintf("%d", p.Groups))))
	if p.Errors > 0 {
		b.WriteString(fmt.Sprintf("  Skipped:     %s\n", styles.ErrorStyle.Render(fmt.Sprintf("%d", p.Errors))))
	}

	// Hashed stays zero in byte-comparison mode; no bar to show then.
	if p.Candidates > 0 && p.Hashed > 0 {
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(p.Hashed) / float64(p.Candidates)))
		b.WriteString("\n")
	}

	if m.cancelled {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render("Cancelling..."))
	} else {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("press q to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

// truncatePath shortens a path to fit the display, keeping its tail.
func truncatePath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	return "..." + path[len(path)-max+3:]
}
