package annotation

type scanState int

const (
	stCode scanState = iota
	stString
	stRegex
	stRegexClass
)

// scanner is a byte-at-a-time state machine shared by every depth-tracking
// scan. Quoted strings and regex literals are opaque: brackets, commas and
// dots inside them never affect depth.
type scanner struct {
	state   scanState
	quote   byte // active quote character while in stString
	escaped bool
	last    byte // immediately preceding byte
	prev    byte // preceding non-space byte outside literals
	parens  int  // ( ) depth
	nest    int  // [ ] and { } depth
}

// feed consumes c and reports whether it was structural (outside any literal).
func (s *scanner) feed(c byte) bool {
	defer func() { s.last = c }()

	switch s.state {
	case stString:
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case c == s.quote:
			s.state = stCode
			s.prev = c
		}
		return false
	case stRegex, stRegexClass:
		switch {
		case s.escaped:
			s.escaped = false
		case c == '\\':
			s.escaped = true
		case s.state == stRegexClass && c == ']':
			s.state = stRegex
		case s.state == stRegex && c == '[':
			s.state = stRegexClass
		case s.state == stRegex && c == '/':
			s.state = stCode
			s.prev = c
		}
		return false
	}

	switch c {
	case '"', '\'', '`':
		// an apostrophe inside a word ("user's") is prose, not a string
		if !isWordByte(s.last) {
			s.state = stString
			s.quote = c
			return false
		}
	case '/':
		if regexMayStart(s.prev) {
			s.state = stRegex
			return false
		}
	case '(':
		s.parens++
	case ')':
		s.parens--
	case '[', '{':
		s.nest++
	case ']', '}':
		s.nest--
	}
	if c != ' ' && c != '\t' {
		s.prev = c
	}
	return true
}

// inLiteral reports whether the scanner is inside a string or regex.
func (s *scanner) inLiteral() bool { return s.state != stCode }

// depth is the combined bracket depth used for top-level comma splitting.
func (s *scanner) depth() int { return s.parens + s.nest }

func regexMayStart(prev byte) bool {
	switch prev {
	case 0, '(', ',', '[', ':', '=', '!', '&', '|', '?', '{', '}', ';':
		return true
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// readIdent returns the identifier starting at i, or "" when none starts there.
func readIdent(s string, i int) string {
	if i >= len(s) || !isIdentStart(s[i]) {
		return ""
	}
	j := i + 1
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return s[i:j]
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// matchParen returns the index of the ')' closing the '(' at open, or -1.
func matchParen(s string, open int) int {
	var sc scanner
	for i := open; i < len(s); i++ {
		if !sc.feed(s[i]) {
			continue
		}
		if s[i] == ')' && sc.parens == 0 {
			return i
		}
	}
	return -1
}
