package physics

// bodySet is an insertion-ordered set of bodies. Iteration follows the order
// bodies were added, which keeps collision outcomes reproducible.
type bodySet struct {
	items []*Body
	index map[*Body]struct{}
}

func newBodySet() *bodySet {
	return &bodySet{index: make(map[*Body]struct{})}
}

func (s *bodySet) add(b *Body) {
	if _, ok := s.index[b]; ok {
		return
	}
	s.index[b] = struct{}{}
	s.items = append(s.items, b)
}

func (s *bodySet) contains(b *Body) bool {
	_, ok := s.index[b]
	return ok
}

func (s *bodySet) len() int { return len(s.items) }

func (s *bodySet) clear() {
	clear(s.index)
	s.items = s.items[:0]
}

func (s *bodySet) slice() []*Body {
	out := make([]*Body, len(s.items))
	copy(out, s.items)
	return out
}
