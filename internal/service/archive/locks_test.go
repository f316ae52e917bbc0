package archive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientLocks_MutualExclusion(t *testing.T) {
	locks := newClientLocks()

	var wg sync.WaitGroup
	counter := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("Jane Smith")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestClientLocks_IndependentClients(t *testing.T) {
	locks := newClientLocks()

	unlockA := locks.lock("Alice Brown")
	defer unlockA()

	// A held lock for one client must not block another client.
	done := make(chan struct{})
	go func() {
		unlock := locks.lock("Jane Smith")
		unlock()
		close(done)
	}()
	<-done
}
