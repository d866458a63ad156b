package pool

// Resettable is a constraint for types that have a Reset() method.
type Resettable interface {
	Reset()
}

// Poolable is a constraint for types that can be pooled (must be resettable and comparable).
type Poolable interface {
	Resettable
	comparable
}

// Pool is a bounded free list of reusable objects of type T.
// It is safe for concurrent use.
type Pool[T Poolable] struct {
	items   chan T
	newItem func() T
}

// New creates a Pool holding at most capacity idle objects.
// newItem builds an object when the pool is empty.
func New[T Poolable](capacity int, newItem func() T) *Pool[T] {
	return &Pool[T]{
		items:   make(chan T, capacity),
		newItem: newItem,
	}
}

// Get returns an idle object or a freshly built one.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.items:
		return item
	default:
		return p.newItem()
	}
}

// Put resets item and keeps it for reuse. Zero values are ignored and
// items beyond capacity are dropped.
func (p *Pool[T]) Put(item T) {
	var zero T
	if item == zero {
		return
	}
	item.Reset()

	select {
	case p.items <- item:
	default:
	}
}
