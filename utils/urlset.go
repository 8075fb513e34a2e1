package utils

// URLSet is a set of listing URLs used for deduplication.
type URLSet struct {
	seen map[string]struct{}
}

// NewURLSet creates a URLSet seeded with the given URLs.
func NewURLSet(urls ...string) *URLSet {
	s := &URLSet{seen: make(map[string]struct{}, len(urls))}
	for _, u := range urls {
		s.seen[u] = struct{}{}
	}
	return s
}

// Contains reports whether the URL is in the set.
func (s *URLSet) Contains(url string) bool {
	_, exists := s.seen[url]
	return exists
}
