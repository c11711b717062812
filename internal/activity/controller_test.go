package activity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerTransitions(t *testing.T) {
	c := NewController()
	var seen []bool
	c.Subscribe(func(enabled bool) { seen = append(seen, enabled) })

	assert.False(t, c.Enabled())
	assert.False(t, c.Disable(), "already disabled")

	assert.True(t, c.Enable())
	assert.True(t, c.Enabled())
	assert.False(t, c.Enable(), "already enabled")

	assert.False(t, c.Toggle())
	assert.False(t, c.Enabled())
	assert.True(t, c.Toggle())

	assert.True(t, c.Set(false))

	assert.Equal(t, []bool{true, false, true, false}, seen)
}

func TestControllerConcurrentTogglesAllApply(t *testing.T) {
	c := NewController()
	var mu sync.Mutex
	calls := 0
	c.Subscribe(func(bool) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	const toggles = 100
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Toggle()
		}()
	}
	wg.Wait()

	assert.False(t, c.Enabled(), "an even number of toggles ends where it started")
	assert.Equal(t, toggles, calls)
}
