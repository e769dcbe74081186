package tui

// Selection is a cursor over a list that wraps at both ends.
type Selection struct {
	index int
}

func (s *Selection) Index() int { return s.index }

// Update moves by direction (normally -1 or +1) over a list of length
// items. An empty list leaves the index alone.
func (s *Selection) Update(direction, length int) {
	if length <= 0 {
		return
	}
	s.index = ((s.index+direction)%length + length) % length
}

// Clamp pulls the index back inside a list that has shrunk.
func (s *Selection) Clamp(length int) {
	switch {
	case length <= 0:
		s.index = 0
	case s.index >= length:
		s.index = length - 1
	case s.index < 0:
		s.index = 0
	}
}

func (s *Selection) Reset() { s.index = 0 }
