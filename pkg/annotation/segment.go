package annotation

import (
	"errors"
	"strings"
)

// maxSegments bounds the number of method calls read from one comment.
const maxSegments = 128

// namespaces are method names that are only meaningful together with the
// method that follows them, e.g. custom.use(...) or iso.datetime().
var namespaces = map[string]bool{
	"custom": true,
	"iso":    true,
}

// Segment is one raw method call cut out of a directive.
type Segment struct {
	Method    string
	RawParams string // text between the enclosing parentheses
	HasParens bool
	Position  int    // byte offset of the call in the normalized comment
	RawMatch  string // source text of the call
}

// Segment returns every annotation call in the normalized comment, in source
// order. Import directives and their trailing validators are skipped, along
// with their structural errors; ParseCustomImports handles them. Calls chained
// after the validators are kept.
func (p *Parser) Segment(normalized string) ([]Segment, []error) {
	segs, errs, _ := p.segment(normalized)
	return segs, errs
}

// segment also returns the byte ranges of the import chains it skipped.
func (p *Parser) segment(normalized string) ([]Segment, []error, [][2]int) {
	var (
		segs    []Segment
		errs    []error
		skipped [][2]int
		from    int
	)
	for from < len(normalized) && len(segs) < maxSegments {
		start := p.nextDirective(normalized, from)
		if start < 0 {
			break
		}
		methodAt := start + len(p.prefix) + 1
		var (
			found []Segment
			end   int
			err   error
		)
		if countChained(normalized, methodAt) > 1 {
			found, end, err = segmentChain(normalized, start, methodAt)
		} else {
			found, end, err = segmentSingle(normalized, start, methodAt)
		}
		if readIdent(normalized, methodAt) == "import" {
			if err != nil && importHandles(found, err) {
				err = nil
			}
			run := importRun(found)
			to := end
			if run > 0 && run < len(found) {
				last := found[run-1]
				to = last.Position + len(last.RawMatch)
			}
			skipped = append(skipped, [2]int{start, to})
			found = found[run:]
		}
		if err != nil {
			errs = append(errs, err)
		}
		segs = append(segs, found...)
		if end <= start {
			end = methodAt
		}
		from = end
	}
	if len(segs) > maxSegments {
		segs = segs[:maxSegments]
	}
	return segs, errs, skipped
}

func isImportValidator(method string) bool {
	return method == "custom.use" || modelValidators[method]
}

// importRun is the number of leading segments of an import chain that
// ParseCustomImports consumes: the import call and the validators after it,
// up to and including the first custom.use.
func importRun(found []Segment) int {
	if len(found) == 0 {
		return 0
	}
	n := 1
	for n < len(found) && isImportValidator(found[n].Method) {
		n++
		if found[n-1].Method == "custom.use" {
			break
		}
	}
	return n
}

// importHandles reports whether a segmentation error inside an import chain
// is already reported by ParseCustomImports. The failing call is the one
// right after found.
func importHandles(found []Segment, err error) bool {
	var ae *AnnotationError
	if !errors.As(err, &ae) {
		return false
	}
	if len(found) == 0 {
		return true
	}
	run := importRun(found)
	return run == len(found) && found[run-1].Method != "custom.use" && isImportValidator(ae.Method)
}

// nextDirective finds the next "<prefix>." at or after from that is not glued
// to a preceding word (as in an e-mail address).
func (p *Parser) nextDirective(s string, from int) int {
	needle := p.prefix + "."
	for from < len(s) {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return -1
		}
		i += from
		if i == 0 || !isWordByte(s[i-1]) {
			if readIdent(s, i+len(needle)) != "" {
				return i
			}
		}
		from = i + len(needle)
	}
	return -1
}

// countChained counts the ".method" calls that directly follow each other
// starting at the identifier at i.
func countChained(s string, i int) int {
	n := 0
	for {
		name := readIdent(s, i)
		if name == "" {
			return n
		}
		n++
		j := skipSpaces(s, i+len(name))
		if j < len(s) && s[j] == '(' {
			close := matchParen(s, j)
			if close < 0 {
				return n
			}
			j = skipSpaces(s, close+1)
		}
		if j >= len(s) || s[j] != '.' {
			return n
		}
		i = skipSpaces(s, j+1)
	}
}

// readCall reads "ident" optionally followed by "(...)" at i. It returns the
// segment and the index just past it.
func readCall(s string, i int) (Segment, int, error) {
	name := readIdent(s, i)
	seg := Segment{Method: name, Position: i}
	end := i + len(name)
	j := skipSpaces(s, end)
	if j < len(s) && s[j] == '(' {
		close := matchParen(s, j)
		if close < 0 {
			return seg, len(s), &AnnotationError{
				Class:    ClassStructural,
				Method:   name,
				Position: j,
				Msg:      "unmatched parenthesis in method " + name,
				Err:      ErrUnbalanced,
			}
		}
		seg.HasParens = true
		seg.RawParams = s[j+1 : close]
		end = close + 1
	}
	return seg, end, nil
}

// segmentSingle handles a directive holding exactly one call.
func segmentSingle(s string, start, methodAt int) ([]Segment, int, error) {
	seg, end, err := readCall(s, methodAt)
	if err != nil {
		return nil, end, err
	}
	seg.Position = start
	seg.RawMatch = s[start:end]
	return []Segment{seg}, end, nil
}

// segmentChain walks a dot-chained sequence of calls. A namespace identifier
// without arguments is merged with the call that follows it.
func segmentChain(s string, start, methodAt int) ([]Segment, int, error) {
	var (
		out     []Segment
		pending *Segment
		cursor  = methodAt
		segAt   = start
	)
	for len(out) < maxSegments {
		seg, end, err := readCall(s, cursor)
		if err != nil {
			var ae *AnnotationError
			if pending != nil && errors.As(err, &ae) {
				ae.Method = pending.Method + "." + ae.Method
			}
			return out, end, err
		}
		if pending != nil {
			seg.Method = pending.Method + "." + seg.Method
			segAt = pending.Position
			pending = nil
		}
		seg.Position = segAt
		seg.RawMatch = s[segAt:end]

		next := skipSpaces(s, end)
		more := next < len(s) && s[next] == '.' && readIdent(s, skipSpaces(s, next+1)) != ""
		if !seg.HasParens && namespaces[seg.Method] && more {
			pending = &seg
		} else {
			out = append(out, seg)
		}
		if !more {
			if pending != nil {
				out = append(out, *pending)
			}
			return out, end, nil
		}
		segAt = next
		cursor = skipSpaces(s, next+1)
	}
	return out, cursor, nil
}
