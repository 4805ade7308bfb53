package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestPoolExecutesTasks(t *testing.T) {
	pool := NewPool(4, zerolog.Nop())
	pool.Start()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()
	pool.Stop()

	assert.Equal(t, int64(100), atomic.LoadInt64(&counter))
}

func TestPoolRecoversFromPanic(t *testing.T) {
	pool := NewPool(2, zerolog.Nop())
	pool.Start()

	var done sync.WaitGroup
	done.Add(2)
	pool.Submit(func() {
		defer done.Done()
		panic("boom")
	})
	pool.Submit(func() {
		done.Done()
	})
	done.Wait()
	pool.Stop()
}

func TestPoolSubmitBlocksInsteadOfDropping(t *testing.T) {
	pool := NewPool(1, zerolog.Nop())
	pool.Start()

	gate := make(chan struct{})
	started := make(chan struct{})
	var counter int64

	// Занимает единственного воркера, буфер остается пустым
	pool.Submit(func() {
		close(started)
		<-gate
		atomic.AddInt64(&counter, 1)
	})
	<-started

	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			<-gate
			atomic.AddInt64(&counter, 1)
		})
	}

	// Очередь полна: следующий Submit должен ждать место, а не терять задание
	extra := make(chan struct{})
	go func() {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
		close(extra)
	}()

	select {
	case <-extra:
		t.Fatal("Submit returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&counter) == 12
	}, 2*time.Second, 10*time.Millisecond)
	pool.Stop()
}

func TestPoolDefaultsToSingleWorker(t *testing.T) {
	pool := NewPool(0, zerolog.Nop())
	assert.Equal(t, 1, pool.maxWorkers)
}
