package schema

import (
	"github.com/dave/jennifer/jen"
)

// GoFile renders a Go package exposing the generated module and one schema
// expression per model and enum, so services can serve or embed them.
func (r *Renderer) GoFile(pkg string, res *Result, module []byte) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(GeneratedHeader)
	if r.Source != "" {
		f.PackageComment("Package " + pkg + " holds zod schemas generated from " + r.Source + ".")
	}

	f.Comment("Dialect is the zod dialect the schemas target.")
	f.Const().Id("Dialect").Op("=").Lit(string(res.Dialect))
	f.Line()
	f.Comment("Module is the rendered TypeScript module.")
	f.Const().Id("Module").Op("=").Lit(string(module))
	f.Line()

	schemas := r.Schemas(res)
	f.Comment("Schemas maps model and enum names to their schema expressions.")
	f.Var().Id("Schemas").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for name, expr := range schemas {
			d[jen.Lit(name)] = jen.Lit(expr)
		}
	}))
	f.Line()

	names := make([]jen.Code, 0, len(res.Enums)+len(res.Models))
	for _, e := range res.Enums {
		names = append(names, jen.Lit(e.Name))
	}
	for _, m := range res.Models {
		names = append(names, jen.Lit(m.Name))
	}
	f.Comment("Names lists the schemas in declaration order.")
	f.Var().Id("Names").Op("=").Index().String().Values(names...)
	return f
}
