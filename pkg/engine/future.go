package engine

import "sync"

// Future is the pending outcome of a submitted request. It resolves exactly
// once. Wait and Then may be used together and from several goroutines.
type Future struct {
	done chan struct{}
	res  Result
	err  error

	mu        sync.Mutex
	callbacks []func(Result, error)
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(res Result, err error) {
	f.mu.Lock()
	f.res, f.err = res, err
	close(f.done)
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(res, err)
	}
}

// Done is closed once the outcome is available.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the outcome is available.
func (f *Future) Wait() (Result, error) {
	<-f.done
	return f.res, f.err
}

// Then calls cb once with the outcome. If the future has already resolved,
// cb runs on the calling goroutine.
func (f *Future) Then(cb func(Result, error)) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		cb(f.res, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}
