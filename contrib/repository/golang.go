package repository

import (
	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/contrib/graphql"
)

var title = cases.Title(language.English, cases.NoLower)

// goType returns the Go parameter type of a key attribute.
func goType(f *gen.Field) *jen.Statement {
	switch f.ScalarName() {
	case gen.ScalarInt.Name:
		return jen.Int64()
	case gen.ScalarFloat.Name:
		return jen.Float64()
	case gen.ScalarBoolean.Name:
		return jen.Bool()
	default:
		return jen.String()
	}
}

// goFile builds the Go repository of t. The repository embeds the
// configured generic base, instantiated with the model type.
func goFile(t *gen.Type, opts Options) (*jen.File, error) {
	basePkg, baseName, err := splitQualified(opts.BaseClass)
	if err != nil {
		return nil, err
	}
	var (
		model = title.String(t.SimpleName)
		repo  = model + "Repository"
		ptr   = jen.Op("*").Qual(opts.ModelPackage, model)
	)
	f := jen.NewFile(packageName(opts.Package))
	f.HeaderComment("Code generated by graphgen. DO NOT EDIT.")

	f.Commentf("%s is the generated repository of %s.", repo, model)
	f.Type().Id(repo).Struct(
		jen.Op("*").Qual(basePkg, baseName).Types(ptr.Clone()),
	)

	f.Commentf("New%s returns a %s backed by base.", repo, repo)
	f.Func().Id("New"+repo).Params(
		jen.Id("base").Op("*").Qual(basePkg, baseName).Types(ptr.Clone()),
	).Op("*").Id(repo).Block(
		jen.Return(jen.Op("&").Id(repo).Values(jen.Dict{jen.Id(baseName): jen.Id("base")})),
	)

	plural := gen.Pluralize(model)
	f.Commentf("GetAll%s returns all instances of %s.", plural, model)
	f.Func().Params(jen.Id("r").Op("*").Id(repo)).Id("GetAll"+plural).Params(
		jen.Id("ctx").Qual("context", "Context"),
	).Params(jen.Index().Add(ptr.Clone()), jen.Error()).Block(
		jen.Return(jen.Id("r").Dot("EntityListQuery").Call(jen.Id("ctx"), jen.Lit(graphql.GetAllName(t)), jen.Nil())),
	)

	if len(t.Key) == 0 {
		return f, nil
	}
	params := []jen.Code{jen.Id("ctx").Qual("context", "Context")}
	values := jen.Dict{}
	for _, k := range t.Key {
		params = append(params, jen.Id(k.Name).Add(goType(k)))
		values[jen.Lit(k.Name)] = jen.Id(k.Name)
	}
	f.Commentf("Get%sByKey returns the %s with the given key, or nil if none is found.", model, model)
	f.Func().Params(jen.Id("r").Op("*").Id(repo)).Id("Get"+model+"ByKey").Params(params...).
		Params(ptr.Clone(), jen.Error()).Block(
		jen.Return(jen.Id("r").Dot("SingleEntityQuery").Call(
			jen.Id("ctx"),
			jen.Lit(graphql.ByKeyName(t)),
			jen.Map(jen.String()).Interface().Values(values),
		)),
	)
	return f, nil
}
