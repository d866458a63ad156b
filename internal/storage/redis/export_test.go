package redis

// InUse returns the number of connections currently checked out of the pool.
func (s *Storage) InUse() int {
	stats := s.client.PoolStats()
	return int(stats.TotalConns - stats.IdleConns)
}
