package scanner

// sizeBuckets partitions files by exact byte size. Insertion order is
// preserved both across sizes (first-seen size first) and within a bucket,
// because later tie-breaking depends on walk encounter order.
type sizeBuckets struct {
	order   []int64
	buckets map[int64][]FileInfo
}

func newSizeBuckets() *sizeBuckets {
	return &sizeBuckets{buckets: make(map[int64][]FileInfo)}
}

// Add inserts a file into its size bucket.
func (b *sizeBuckets) Add(fi FileInfo) {
	if _, ok := b.buckets[fi.Size]; !ok {
		b.order = append(b.order, fi.Size)
	}
	b.buckets[fi.Size] = append(b.buckets[fi.Size], fi)
}

// Len returns the number of files added.
func (b *sizeBuckets) Len() int {
	n := 0
	for _, files := range b.buckets {
		n += len(files)
	}
	return n
}

// Candidates returns the buckets holding at least two files, in first-seen
// size order. Singleton sizes cannot be duplicates and are dropped here,
// before any hashing cost is paid.
func (b *sizeBuckets) Candidates() [][]FileInfo {
	var out [][]FileInfo
	for _, size := range b.order {
		if files := b.buckets[size]; len(files) >= 2 {
			out = append(out, files)
		}
	}
	return out
}
