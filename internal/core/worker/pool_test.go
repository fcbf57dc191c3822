package worker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestPoolRunsAllTasks(t *testing.T) {
	p := New(3, zaptest.NewLogger(t))
	defer p.Close()

	var count atomic.Int32
	for i := 0; i < 100; i++ {
		if err := p.Go(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}); err != nil {
			t.Fatalf("Go: %v", err)
		}
	}
	p.Wait()
	if count.Load() != 100 {
		t.Fatalf("ran %d tasks before Wait returned, want 100", count.Load())
	}
}

func TestPoolDefaultSize(t *testing.T) {
	p := New(0, nil)
	defer p.Close()
	if p.Size() < 1 {
		t.Fatalf("Size = %d", p.Size())
	}
}

func TestPoolFIFOWithSingleWorker(t *testing.T) {
	p := New(1, nil)
	defer p.Close()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		p.Go(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	p.Wait()
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestSubmitReturnsResult(t *testing.T) {
	p := New(2, nil)
	defer p.Close()

	f := Submit(p, func() (int, error) { return 21 * 2, nil })
	v, err := f.Wait()
	if err != nil || v != 42 {
		t.Fatalf("Wait = %d, %v", v, err)
	}

	boom := errors.New("boom")
	f2 := Submit(p, func() (string, error) { return "", boom })
	if _, err := f2.Wait(); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestSubmitPanicDoesNotKillPool(t *testing.T) {
	p := New(1, zaptest.NewLogger(t))
	defer p.Close()

	f := Submit(p, func() (int, error) { panic("bad task") })
	if _, err := f.Wait(); !errors.Is(err, ErrTaskPanicked) {
		t.Fatalf("err = %v, want ErrTaskPanicked", err)
	}
	p.Go(func() { panic("bare task") })

	after := Submit(p, func() (int, error) { return 1, nil })
	if v, err := after.Wait(); err != nil || v != 1 {
		t.Fatalf("pool stopped working after panic: %d, %v", v, err)
	}
}

func TestCloseDrainsQueue(t *testing.T) {
	p := New(1, nil)
	var count atomic.Int32
	block := make(chan struct{})
	p.Go(func() { <-block })
	for i := 0; i < 10; i++ {
		p.Go(func() { count.Add(1) })
	}
	close(block)
	p.Close()
	if count.Load() != 10 {
		t.Fatalf("Close dropped tasks: ran %d of 10", count.Load())
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := New(1, nil)
	p.Close()
	p.Close()

	if err := p.Go(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Go after close = %v", err)
	}
	f := Submit(p, func() (int, error) { return 1, nil })
	if _, err := f.Wait(); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit after close = %v", err)
	}
}

func TestWaitOnIdlePool(t *testing.T) {
	p := New(2, nil)
	defer p.Close()
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked on an idle pool")
	}
}
