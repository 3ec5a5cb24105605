package organizer

// SetMoveFuncForTests swaps the rename primitive and returns a restore func.
func (e *Engine) SetMoveFuncForTests(fn func(src, dst string) error) func() {
	prev := e.move
	e.move = fn
	return func() { e.move = prev }
}
