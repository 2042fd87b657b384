package csvindex

import (
	"os"
	"runtime"
	"sync"
)

// platform.go holds the operating-system queries (page size, CPU count) and
// the file primitives for opening, sizing and positional reads. It has no
// seek, sequential-read or close wrappers: the paged reader seeks, reads and
// closes through the *os.File that openRead returns, and a CellReader closes
// its handle directly.

var (
	pageSizeOnce sync.Once
	pageSizeVal  int

	cpuCountOnce sync.Once
	cpuCountVal  int
)

// pageSize returns the OS page size. Cached after the first call.
func pageSize() int {
	pageSizeOnce.Do(func() {
		pageSizeVal = os.Getpagesize()
	})
	return pageSizeVal
}

// cpuCount returns the number of usable CPUs. Cached after the first call.
func cpuCount() int {
	cpuCountOnce.Do(func() {
		cpuCountVal = runtime.NumCPU()
	})
	return cpuCountVal
}

// openRead opens path for reading.
func openRead(path string) (*os.File, error) {
	return os.Open(path)
}

// statSize returns the on-disk size of path in bytes.
func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// readAt fills dst from f starting at off, tolerating a short read at end of
// file. Returns the number of bytes actually read.
func readAt(f *os.File, dst []byte, off int64) int {
	n, _ := f.ReadAt(dst, off)
	return n
}
