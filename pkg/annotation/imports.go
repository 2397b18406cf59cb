package annotation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

var (
	fromClause     = regexp.MustCompile(`^import\s+(.+?)\s+from\s*(['"])([^'"]+)['"]$`)
	sideEffect     = regexp.MustCompile(`^import\s*(['"])([^'"]+)['"]$`)
	looseImport    = regexp.MustCompile(`import\s+(?:[^'"]*?\s+from\s*)?['"][^'"]+['"]`)
	identifier     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	namespaceAlias = regexp.MustCompile(`^\*\s*as\s+([A-Za-z_$][A-Za-z0-9_$]*)$`)
)

// modelValidators may follow an import directive on a model comment.
var modelValidators = map[string]bool{
	"refine":      true,
	"transform":   true,
	"superRefine": true,
	"pipe":        true,
}

// CustomImport is one classified import statement.
type CustomImport struct {
	ImportStatement string
	Source          string
	ImportedItems   []string // local binding names
	IsDefault       bool
	IsNamespace     bool
	IsTypeOnly      bool
}

// CustomSchema is the validator expression attached after an import
// directive. For fields Method is "custom.use" and Expression replaces the
// base type; for models Chain is appended to the object schema.
type CustomSchema struct {
	Method     string
	Expression string
	Chain      string
}

// ImportResult is the outcome of ParseCustomImports.
type ImportResult struct {
	Imports      []CustomImport
	CustomSchema *CustomSchema
	ParseErrors  []error
	IsValid      bool
}

// ParseCustomImports finds import directives in comment, classifies their
// statements and captures a trailing validator call. Statements repeated
// within the comment are reported once.
func (p *Parser) ParseCustomImports(comment string, ctx FieldContext) ImportResult {
	res := ImportResult{IsValid: true}
	text := Normalize(comment)
	seen := make(map[string]bool)

	for _, loc := range p.importDir.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isWordByte(text[loc[0]-1]) {
			continue
		}
		open := loc[1] - 1
		close := matchParen(text, open)
		if close < 0 {
			res.ParseErrors = append(res.ParseErrors,
				newError(ClassStructural, ctx, "import", open, ErrUnbalanced, "unmatched parenthesis in import directive"))
			continue
		}
		stmts, err := extractStatements(text[open+1 : close])
		if err != nil {
			res.ParseErrors = append(res.ParseErrors, newError(ClassParse, ctx, "import", loc[0], err, "invalid import directive"))
		}
		for _, stmt := range stmts {
			if seen[stmt] {
				continue
			}
			seen[stmt] = true
			ci, err := ClassifyImport(stmt)
			if err != nil {
				res.ParseErrors = append(res.ParseErrors, newError(ClassParse, ctx, "import", loc[0], err, "cannot classify %q", stmt))
				continue
			}
			res.Imports = append(res.Imports, ci)
		}

		cs, err := trailingValidator(text, close+1, ctx)
		if err != nil {
			res.ParseErrors = append(res.ParseErrors, err)
			continue
		}
		if cs != nil {
			if res.CustomSchema != nil {
				p.logger.With(ctx.logArgs()...).Warn("several custom validators declared, keeping the last")
			}
			res.CustomSchema = cs
		}
	}
	res.IsValid = len(res.ParseErrors) == 0
	return res
}

// extractStatements reads a JSON array of statements, falling back to
// picking import statements out of the raw text.
func extractStatements(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	var stmts []string
	if err := json.Unmarshal([]byte(content), &stmts); err == nil {
		out := stmts[:0]
		for _, s := range stmts {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	}
	found := looseImport.FindAllString(content, -1)
	if len(found) == 0 {
		return nil, errors.New("no import statements found")
	}
	return found, nil
}

// trailingValidator captures ".custom.use(...)" on fields or
// ".refine(...)" and friends on models directly after an import directive.
func trailingValidator(text string, from int, ctx FieldContext) (*CustomSchema, error) {
	i := skipSpaces(text, from)
	if i >= len(text) || text[i] != '.' {
		return nil, nil
	}
	start := i
	var cs *CustomSchema
	for i < len(text) && text[i] == '.' {
		nameAt := skipSpaces(text, i+1)
		name := readIdent(text, nameAt)
		if name == "" {
			break
		}
		j := skipSpaces(text, nameAt+len(name))
		if name == "custom" && j < len(text) && text[j] == '.' {
			at := skipSpaces(text, j+1)
			if next := readIdent(text, at); next != "" {
				name += "." + next
				j = skipSpaces(text, at+len(next))
			}
		}
		if j >= len(text) || text[j] != '(' {
			break
		}
		close := matchParen(text, j)
		if close < 0 {
			return nil, newError(ClassStructural, ctx, name, j, ErrUnbalanced, "unmatched parenthesis in method %s", name)
		}
		switch {
		case name == "custom.use" && !ctx.IsModel():
		case modelValidators[name] && ctx.IsModel():
		case name == "custom.use":
			return nil, newError(ClassValidation, ctx, name, i, nil, "%s is only valid on fields", name)
		case modelValidators[name]:
			return nil, newError(ClassValidation, ctx, name, i, nil, "%s is only valid on models", name)
		default:
			return cs, nil
		}
		expr := strings.TrimSpace(text[j+1 : close])
		if expr == "" {
			return nil, newError(ClassValidation, ctx, name, i, nil, "%s requires an expression", name)
		}
		if cs == nil {
			cs = &CustomSchema{Method: name, Expression: expr}
		}
		cs.Chain = text[start : close+1]
		i = skipSpaces(text, close+1)
		if name == "custom.use" {
			break
		}
	}
	return cs, nil
}

// ClassifyImport parses an ES import statement.
func ClassifyImport(stmt string) (CustomImport, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
	ci := CustomImport{ImportStatement: strings.TrimSpace(stmt)}
	if m := sideEffect.FindStringSubmatch(s); m != nil {
		ci.Source = m[2]
		return ci, nil
	}
	m := fromClause.FindStringSubmatch(s)
	if m == nil {
		return ci, errors.New("not an import statement with a from clause")
	}
	ci.Source = m[3]
	clause := strings.TrimSpace(m[1])
	if rest, ok := strings.CutPrefix(clause, "type "); ok {
		ci.IsTypeOnly = true
		clause = strings.TrimSpace(rest)
	}

	// default binding first, then a namespace or a named block
	if clause != "" && clause[0] != '{' && clause[0] != '*' {
		def, rest, _ := strings.Cut(clause, ",")
		def = strings.TrimSpace(def)
		if !identifier.MatchString(def) {
			return ci, fmt.Errorf("invalid default import %q", def)
		}
		ci.IsDefault = true
		ci.ImportedItems = append(ci.ImportedItems, def)
		clause = strings.TrimSpace(rest)
	}
	switch {
	case clause == "":
	case clause[0] == '*':
		nm := namespaceAlias.FindStringSubmatch(clause)
		if nm == nil {
			return ci, fmt.Errorf("invalid namespace import %q", clause)
		}
		ci.IsNamespace = true
		ci.ImportedItems = append(ci.ImportedItems, nm[1])
	case clause[0] == '{':
		if !strings.HasSuffix(clause, "}") {
			return ci, fmt.Errorf("unterminated named imports %q", clause)
		}
		for _, item := range strings.Split(clause[1:len(clause)-1], ",") {
			item = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "type "))
			if item == "" {
				continue
			}
			name := item
			if orig, alias, ok := strings.Cut(item, " as "); ok {
				if !identifier.MatchString(strings.TrimSpace(orig)) {
					return ci, fmt.Errorf("invalid named import %q", item)
				}
				name = strings.TrimSpace(alias)
			}
			if !identifier.MatchString(name) {
				return ci, fmt.Errorf("invalid named import %q", item)
			}
			ci.ImportedItems = append(ci.ImportedItems, name)
		}
	default:
		return ci, fmt.Errorf("invalid import clause %q", clause)
	}
	return ci, nil
}

// ImportSet collects imports across a whole run, keeping the first
// occurrence of each statement. It is safe for concurrent use.
type ImportSet struct {
	mu    sync.Mutex
	seen  map[string]bool
	items []CustomImport
}

func NewImportSet() *ImportSet {
	return &ImportSet{seen: make(map[string]bool)}
}

func (s *ImportSet) Add(imports ...CustomImport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ci := range imports {
		if s.seen[ci.ImportStatement] {
			continue
		}
		s.seen[ci.ImportStatement] = true
		s.items = append(s.items, ci)
	}
}

// Imports returns the collected imports in insertion order.
func (s *ImportSet) Imports() []CustomImport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CustomImport(nil), s.items...)
}

func (s *ImportSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
