package memory

func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.urlMap)
}
