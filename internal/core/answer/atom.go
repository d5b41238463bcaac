package answer

import (
	"strconv"

	apperrors "github.com/agenthands/netrepair/internal/errors"
)

// Atom is one ground atom of an answer line.
type Atom struct {
	Functor string
	Args    []int
	// Offset is the byte position of the functor in the line.
	Offset int
	Text   string
}

// lexer splits an answer line into atoms of the form
// ident [ '(' int { ',' int } ')' ] separated by blanks.
type lexer struct {
	src string
	pos int
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '\''
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) skipBlanks() {
	for l.pos < len(l.src) && isBlank(l.src[l.pos]) {
		l.pos++
	}
}

// tokenEnd returns the end of the blank-delimited token starting at start,
// used to quote the offending text in errors.
func (l *lexer) tokenEnd(start int) int {
	end := start
	for end < len(l.src) && !isBlank(l.src[end]) {
		end++
	}
	return end
}

func (l *lexer) fail(start int, reason string) error {
	return &apperrors.ParseError{Token: l.src[start:l.tokenEnd(start)], Offset: start, Reason: reason}
}

// next returns the next atom, or nil at end of input.
func (l *lexer) next() (*Atom, error) {
	l.skipBlanks()
	if l.pos >= len(l.src) {
		return nil, nil
	}
	start := l.pos
	if !isIdentStart(l.src[l.pos]) {
		return nil, l.fail(start, "expected predicate name")
	}
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	atom := &Atom{Functor: l.src[start:l.pos], Offset: start}

	if l.pos < len(l.src) && l.src[l.pos] == '(' {
		l.pos++
		for {
			arg, err := l.integer(start)
			if err != nil {
				return nil, err
			}
			atom.Args = append(atom.Args, arg)
			if l.pos >= len(l.src) {
				return nil, l.fail(start, "unterminated argument list")
			}
			c := l.src[l.pos]
			l.pos++
			if c == ')' {
				break
			}
			if c != ',' {
				return nil, l.fail(start, "expected ',' or ')'")
			}
		}
	}
	if l.pos < len(l.src) && !isBlank(l.src[l.pos]) {
		return nil, l.fail(start, "unexpected character after atom")
	}
	atom.Text = l.src[start:l.pos]
	return atom, nil
}

func (l *lexer) integer(atomStart int) (int, error) {
	start := l.pos
	if l.pos < len(l.src) && l.src[l.pos] == '-' {
		l.pos++
	}
	digits := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == digits {
		return 0, l.fail(atomStart, "expected integer argument")
	}
	v, err := strconv.Atoi(l.src[start:l.pos])
	if err != nil {
		return 0, l.fail(atomStart, "integer out of range")
	}
	return v, nil
}

// Atoms tokenizes a whole answer line.
func Atoms(line string) ([]*Atom, error) {
	l := &lexer{src: line}
	var atoms []*Atom
	for {
		atom, err := l.next()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			return atoms, nil
		}
		atoms = append(atoms, atom)
	}
}
