package pool

func (p *Pool[T]) Idle() int {
	return len(p.items)
}
