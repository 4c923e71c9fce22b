package utils

import "sync"

// GDAL dataset handles must not be used from several goroutines at once.
var mu sync.Mutex

func ExecuteWithMutex(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
