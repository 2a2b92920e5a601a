package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/dedup/internal/cleaner"
	"github.com/fenilsonani/dedup/internal/config"
	"github.com/fenilsonani/dedup/internal/progress"
	"github.com/fenilsonani/dedup/internal/reporter"
	"github.com/fenilsonani/dedup/internal/scanner"
	"github.com/fenilsonani/dedup/internal/ui"
	"github.com/fenilsonani/dedup/pkg/utils"
)

var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	quiet      bool

	hashAlgorithm  string
	minSize        string
	maxSize        string
	noRecursive    bool
	followSymlinks bool
	allBytes       bool
	workers        int

	outputFmt  string
	reportFmt  string
	outputFile string
	dryRun     bool
	force      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Find and remove duplicate files",
	Long: `Dedup finds groups of byte-identical files under one or more paths.
Candidates are narrowed by size and content hash, then verified
byte-for-byte, so reported duplicates are never hash-collision
false positives.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Scan paths for duplicate files",
	Long:  `Scans one or more files or directories and reports duplicate groups without making any changes.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, plans, err := runScan(cmd, args)
		if err != nil {
			return err
		}

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(result, plans, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}
		return reporter.New(os.Stdout, format).Report(result, plans)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge [paths...]",
	Short: "Remove duplicate files, keeping one copy per group",
	Long: `Scans for duplicates and deletes the removable copies. For each group
the file with the shortest name is kept; ties keep the first file
encountered. Use --dry-run to preview deletions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, plans, err := runScan(cmd, args)
		if err != nil {
			return err
		}

		if len(result.Groups) == 0 {
			fmt.Println("No duplicate files found. Nothing to purge.")
			reportSkipped(result)
			return nil
		}

		if err := reporter.New(os.Stdout, reporter.FormatGroups).Report(result, plans); err != nil {
			return err
		}

		if !force && !dryRun {
			fmt.Printf("Delete %d file(s), reclaiming %s? (y/N): ",
				result.Summary.DuplicateCount,
				utils.FormatBytes(result.Summary.ReclaimableBytes))
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Purge cancelled")
				return nil
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cleanResult, err := cleaner.New(dryRun).Purge(ctx, plans)
		if err != nil {
			return fmt.Errorf("purge interrupted: %w", err)
		}

		if cleanResult.DryRun {
			fmt.Printf("\n[DRY RUN] Would delete %d file(s):\n", len(cleanResult.WouldRemove))
			for _, path := range cleanResult.WouldRemove {
				fmt.Printf("  %s\n", path)
			}
			return nil
		}

		fmt.Printf("\nDeleted %d file(s), reclaimed %s\n",
			len(cleanResult.Removed), utils.FormatBytes(cleanResult.RemovedBytes))
		if len(cleanResult.Errors) > 0 {
			fmt.Print(cleaner.FormatErrorSummary(cleanResult.Errors))
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [paths...]",
	Short: "Generate a machine-readable duplicate report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, plans, err := runScan(cmd, args)
		if err != nil {
			return err
		}

		format, err := reporter.ParseFormat(reportFmt)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(result, plans, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}
		return reporter.New(os.Stdout, format).Report(result, plans)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}

		fmt.Printf("Config file: %s\n", path)
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		fmt.Printf("  recursive:       %v\n", cfg.Recursive)
		fmt.Printf("  follow_symlinks: %v\n", cfg.FollowSymlinks)
		fmt.Printf("  hash_algorithm:  %s\n", cfg.HashAlgorithm)
		fmt.Printf("  min_size:        %s\n", cfg.MinSize)
		if cfg.MaxSize != "" {
			fmt.Printf("  max_size:        %s\n", cfg.MaxSize)
		} else {
			fmt.Printf("  max_size:        (unlimited)\n")
		}
		fmt.Printf("  all_bytes:       %v\n", cfg.AllBytes)
		fmt.Printf("  workers:         %d\n", cfg.Workers)
		return nil
	},
}

// runScan resolves configuration, runs the engine (with a live view on a
// terminal) and plans removals for the resulting groups.
func runScan(cmd *cobra.Command, roots []string) (*scanner.Result, []cleaner.RemovalPlan, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	scanCfg, err := cfg.ScanConfig()
	if err != nil {
		return nil, nil, err
	}
	eng, err := scanner.New(scanCfg)
	if err != nil {
		return nil, nil, err
	}

	pr := progress.NewReporter()
	eng.SetReporter(pr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		result *scanner.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := eng.Scan(ctx, roots)
		// Closing here guarantees every subscriber unblocks once the
		// scan is over, whatever it last managed to receive.
		pr.Close()
		done <- outcome{result, err}
	}()

	switch {
	case ui.IsInteractive() && !quiet:
		if err := ui.RunScan(cancel, pr.Subscribe()); err != nil {
			cancel()
		}
	case verbose && !quiet:
		logProgress(os.Stderr, pr.Subscribe())
	}

	out := <-done
	if out.err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", out.err)
	}

	return out.result, cleaner.PlanAll(out.result.Groups), nil
}

// applyFlags overrides file configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("hash-algorithm") {
		cfg.HashAlgorithm = hashAlgorithm
	}
	if cmd.Flags().Changed("min-size") {
		cfg.MinSize = minSize
	}
	if cmd.Flags().Changed("max-size") {
		cfg.MaxSize = maxSize
	}
	if cmd.Flags().Changed("no-recursive") {
		cfg.Recursive = !noRecursive
	}
	if cmd.Flags().Changed("follow-symlinks") {
		cfg.FollowSymlinks = followSymlinks
	}
	if cmd.Flags().Changed("all-bytes") {
		cfg.AllBytes = allBytes
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	dryRun = cfg.DryRun
	verbose = cfg.Verbose
}

// logProgress prints plain-text progress for verbose non-interactive runs,
// announcing the walk result once and a final line when the scan ends.
func logProgress(w io.Writer, updates <-chan progress.ScanProgress) {
	var last progress.ScanProgress
	announced := false
	for p := range updates {
		if !announced && p.Phase != progress.PhaseWalking {
			announced = true
			fmt.Fprintf(w, "walked %d file(s) (%s), %d duplicate candidate(s)\n",
				p.FilesSeen, utils.FormatBytes(p.BytesSeen), p.Candidates)
		}
		last = p
	}
	fmt.Fprintf(w, "found %d duplicate group(s), skipped %d path(s)\n", last.Groups, last.Errors)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&hashAlgorithm, "hash-algorithm", "sha256", "hash algorithm (md5, sha1, sha256, sha512)")
	cmd.Flags().StringVar(&minSize, "min-size", "0", "minimum file size to consider (e.g. 1KB)")
	cmd.Flags().StringVar(&maxSize, "max-size", "", "maximum file size to consider (default: no limit)")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "do not scan directories recursively")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "follow symbolic links")
	cmd.Flags().BoolVar(&allBytes, "all-bytes", false, "compare byte-by-byte instead of hashing (slower)")
	cmd.Flags().IntVar(&workers, "workers", 0, "hashing concurrency (0 = auto)")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress display")

	addScanFlags(scanCmd)
	scanCmd.Flags().StringVar(&outputFmt, "format", "groups", "output format (groups, summary, json, yaml)")
	scanCmd.Flags().StringVarP(&outputFile, "output", "o", "", "save report to file")

	addScanFlags(purgeCmd)
	purgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	purgeCmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	addScanFlags(reportCmd)
	reportCmd.Flags().StringVar(&reportFmt, "format", "json", "output format (groups, summary, json, yaml)")
	reportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "save report to file")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func reportSkipped(result *scanner.Result) {
	if len(result.Errors) == 0 {
		return
	}
	fmt.Printf("Skipped %d path(s) due to errors; run with --format groups for details.\n", len(result.Errors))
}
