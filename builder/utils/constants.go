package utils

import (
	"runtime"
)

const (
	minWorkers = 2
	maxWorkers = 12
)

// GetDefaultWorkerCount returns the default number of parallel frontmatter
// parsers, based on CPU cores.
func GetDefaultWorkerCount() int {
	workers := runtime.NumCPU()
	if workers < minWorkers {
		return minWorkers
	}
	if workers > maxWorkers {
		return maxWorkers
	}
	return workers
}
