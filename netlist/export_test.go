package netlist

// poisonedState reports whether a writer has failed.
func (l *List) poisonedState() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.poisoned
}
