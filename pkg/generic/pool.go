package generic

import "sync"

// Pool is a typed wrapper over sync.Pool. Reset, when set, runs on Put so
// recycled values never leak state between users.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// NewResetPool creates a pool that calls reset on every value handed back.
func NewResetPool[T any](generate func() T, reset func(T)) *Pool[T] {
	p := NewPool[T](generate)
	p.reset = reset
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}
