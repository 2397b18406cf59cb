package annotation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cmmoran/zodanno/internal/model"
)

// MaxCommentLength bounds the documentation text scanned for one field.
const MaxCommentLength = 64 << 10

// ExtractedComment is the normalized documentation of one field or model.
type ExtractedComment struct {
	Context           FieldContext
	NormalizedComment string
	HasAnnotations    bool
	ExtractionErrors  []error
}

// ExtractComments walks models with the default directive prefix.
func ExtractComments(models []*model.Model) []ExtractedComment {
	return New().ExtractComments(models)
}

// ExtractComments returns one ExtractedComment per model and per field that
// carries non-empty documentation. Model comments precede their fields.
// Problems with a single field are recorded on that entry only.
func (p *Parser) ExtractComments(models []*model.Model) []ExtractedComment {
	out := make([]ExtractedComment, 0)
	for _, m := range models {
		if m == nil {
			continue
		}
		if m.Documentation != "" {
			out = append(out, p.extractOne(ModelContextOf(m)))
		}
		for i, f := range m.Fields {
			if f == nil {
				ctx := FieldContext{ModelName: m.Name, FieldName: "#" + strconv.Itoa(i)}
				out = append(out, ExtractedComment{
					Context: ctx,
					ExtractionErrors: []error{
						newError(ClassExtraction, ctx, "", -1, nil, "field %d is nil", i),
					},
				})
				continue
			}
			if f.Documentation == "" {
				continue
			}
			out = append(out, p.extractOne(FieldContextOf(m, f)))
		}
	}
	return out
}

// ExtractComment normalizes a single context's comment.
func (p *Parser) ExtractComment(ctx FieldContext) ExtractedComment {
	return p.extractOne(ctx)
}

func (p *Parser) extractOne(ctx FieldContext) ExtractedComment {
	ec := ExtractedComment{Context: ctx}
	raw := ctx.Comment
	if len(raw) > MaxCommentLength {
		ec.ExtractionErrors = append(ec.ExtractionErrors,
			newError(ClassExtraction, ctx, "", -1, nil, "comment exceeds %d bytes", MaxCommentLength))
		return ec
	}
	if !utf8.ValidString(raw) {
		ec.ExtractionErrors = append(ec.ExtractionErrors,
			newError(ClassExtraction, ctx, "", -1, nil, "comment is not valid UTF-8; invalid bytes replaced"))
		raw = strings.ToValidUTF8(raw, "")
	}
	ec.NormalizedComment = Normalize(raw)
	ec.HasAnnotations = p.hasDirective(ec.NormalizedComment)
	return ec
}
