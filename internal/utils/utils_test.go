package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[uint8]int{3: 0, 0: 5, 2: 1}
	assert.Equal(t, []uint8{0, 2, 3}, SortedKeys(m, true))
	assert.Equal(t, []uint8{3, 2, 0}, SortedKeys(m, false))
	assert.Empty(t, SortedKeys(map[string]bool{}, true))
}

func TestExecuteWithMutex(t *testing.T) {
	var wg sync.WaitGroup
	n := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ExecuteWithMutex(func() { n++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, n)
}
