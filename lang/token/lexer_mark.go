package token

// Mark returns an opaque cursor into the lexer's input, usable with Reset to
// rewind scanning. It backs the parser's one-spot backtrack needed to
// disambiguate a block `{ ... }` from an object literal `{ k: v }`, both of
// which start with the same token.
func (l *Lexer) Mark() int { return l.off }

// Reset rewinds the lexer to a cursor previously returned by Mark.
func (l *Lexer) Reset(mark int) { l.off = mark }
