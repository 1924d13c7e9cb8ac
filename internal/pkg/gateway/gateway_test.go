package gateway

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoReturnsTaskError(t *testing.T) {
	g := New()

	wantErr := errors.New("device gone")
	assert.Equal(t, wantErr, g.Do(func() error { return wantErr }))
	assert.NoError(t, g.Do(func() error { return nil }))
}

func TestCallReturnsValue(t *testing.T) {
	g := New()

	v, err := Call(g, func() (int, error) { return 42, nil })
	assert.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Call(g, func() (string, error) { return "", errors.New("nope") })
	assert.Error(t, err)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	g := New()

	err := g.Do(func() error { panic("ioctl blew up") })
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ioctl blew up")

	// worker must keep serving tasks afterwards
	assert.NoError(t, g.Do(func() error { return nil }))
}

func TestSingleTaskInFlight(t *testing.T) {
	g := New()

	var inFlight, maxSeen int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.Do(func() error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					seen := atomic.LoadInt32(&maxSeen)
					if n <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, n) {
						break
					}
				}
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxSeen))
}
