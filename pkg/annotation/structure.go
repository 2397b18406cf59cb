package annotation

import (
	"fmt"
	"regexp"
)

// CheckBalance verifies that parentheses outside string and regex literals
// are balanced. It stops at the first unmatched ')' and otherwise reports the
// number of '(' left open.
func CheckBalance(s string) []error {
	var sc scanner
	for i := 0; i < len(s); i++ {
		if !sc.feed(s[i]) || s[i] != ')' {
			continue
		}
		if sc.parens < 0 {
			return []error{&AnnotationError{
				Class:    ClassStructural,
				Position: i,
				Msg:      fmt.Sprintf("unmatched closing parenthesis at position %d", i),
				Err:      ErrUnbalanced,
			}}
		}
	}
	if sc.parens > 0 {
		return []error{&AnnotationError{
			Class:    ClassStructural,
			Position: len(s),
			Msg:      fmt.Sprintf("%d unmatched opening parenthesis(es)", sc.parens),
			Err:      ErrUnbalanced,
		}}
	}
	return nil
}

// ValidateStructure runs CheckBalance only when the text holds a directive.
func (p *Parser) ValidateStructure(normalized string) []error {
	if !p.hasDirective(normalized) {
		return nil
	}
	return CheckBalance(normalized)
}

func directivePattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(prefix) + `\.[A-Za-z_]`)
}

func (p *Parser) hasDirective(s string) bool {
	return p.directive.MatchString(s)
}
