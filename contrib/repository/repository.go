// Package repository renders repository source stubs for the node types
// of a schema model. Java and Kotlin stubs come from templates, Go stubs
// are built with jennifer.
package repository

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/contrib/graphql"
)

// DefaultBase is the base class of Java and Kotlin repositories.
const DefaultBase = "AbstractNodeRepository"

var (
	//go:embed template/*
	templateDir embed.FS
	templates   = template.Must(template.ParseFS(templateDir, "template/*.tmpl"))
)

// Options configures repository rendering.
type Options struct {
	// Language is one of gen.LangJava, gen.LangKotlin or gen.LangGo.
	Language string
	// Package is the dotted repository package.
	Package string
	// BaseClass overrides the base class. For Go it is the qualified
	// generic type, for example "github.com/acme/repo.NodeRepository".
	BaseClass string
	// ModelPackage is the import path of the Go model types.
	ModelPackage string
	// Exists reports whether a hand-maintained file replaces the stub
	// with the given file name.
	Exists func(file string) bool
	Logger *zap.Logger
}

// OptionsFrom returns the options configured by c.
func OptionsFrom(c *gen.Config) Options {
	opts := Options{Language: c.RepositoryLanguage(), Package: c.RepositoryPackage(), Logger: c.Logger}
	if rc := c.Repository; rc != nil {
		opts.BaseClass = rc.BaseClass
		opts.ModelPackage = rc.ModelPackage
	}
	return opts
}

func (o Options) log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ext returns the source file extension of the language.
func ext(lang string) (string, error) {
	switch lang {
	case gen.LangJava, "":
		return ".java", nil
	case gen.LangKotlin:
		return ".kt", nil
	case gen.LangGo:
		return ".go", nil
	default:
		return "", gen.NewConfigError("Repository.Language", lang, "unsupported repository language")
	}
}

// FileName returns the stub file name of t.
func FileName(t *gen.Type, lang string) string {
	e, err := ext(lang)
	if err != nil {
		e = "." + lang
	}
	return t.SimpleName + "Repository" + e
}

// Render renders a stub for every node type of g. Stubs replaced by a
// hand-maintained file are skipped. Document paths are file names.
func Render(g *gen.Graph, opts Options) ([]gen.Document, error) {
	if _, err := ext(opts.Language); err != nil {
		return nil, err
	}
	if opts.Language == gen.LangGo {
		if _, _, err := splitQualified(opts.BaseClass); err != nil {
			return nil, gen.NewConfigError("Repository.BaseClass", opts.BaseClass, "go repositories require a qualified base type")
		}
		if opts.ModelPackage == "" {
			return nil, gen.NewConfigError("Repository.ModelPackage", "", "go repositories require the model import path")
		}
	}
	var docs []gen.Document
	for _, t := range g.Types() {
		if t.Kind != gen.KindNode {
			continue
		}
		file := FileName(t, opts.Language)
		if opts.Exists != nil && opts.Exists(file) {
			opts.log().Info("skip repository, an existing source file was found", zap.String("file", file))
			continue
		}
		content, err := render(t, opts)
		if err != nil {
			return nil, gen.NewGenerationError("repository", file, "render stub", err)
		}
		docs = append(docs, gen.Document{Path: file, Content: content})
	}
	return docs, nil
}

// Generate renders the stubs of g and writes them with w. It returns the
// paths written, relative to the sink root.
func Generate(ctx context.Context, g *gen.Graph, w *gen.Writer, opts Options) ([]string, error) {
	docs, err := Render(g, opts)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		opts.log().Info("generate repository", zap.String("file", d.Path))
	}
	if err := w.Write(ctx, docs...); err != nil {
		return nil, err
	}
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = d.Path
	}
	return paths, nil
}

// Prune removes every regular file in dir that is not listed in keep.
func Prune(dir string, keep []string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || slices.Contains(keep, e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func render(t *gen.Type, opts Options) ([]byte, error) {
	if opts.Language == gen.LangGo {
		var b bytes.Buffer
		f, err := goFile(t, opts)
		if err != nil {
			return nil, err
		}
		if err := f.Render(&b); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	}
	name := "java.tmpl"
	if opts.Language == gen.LangKotlin {
		name = "kotlin.tmpl"
	}
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, newStub(t, opts)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

type key struct {
	Name string
	Type string
}

// stub is the template data of a Java or Kotlin repository.
type stub struct {
	Package     string
	Name        string
	Model       string
	ModelClass  string
	Extends     string
	BaseImport  string
	DefaultBase bool
	Plural      string
	ListQuery   string
	KeyQuery    string
	Keys        []key
}

func newStub(t *gen.Type, opts Options) *stub {
	s := &stub{
		Package:    opts.Package,
		Name:       t.SimpleName + "Repository",
		Model:      t.SimpleName,
		ModelClass: strings.ReplaceAll(t.Class, "$", "."),
		Plural:     gen.Pluralize(t.SimpleName),
		ListQuery:  graphql.GetAllName(t),
		KeyQuery:   graphql.ByKeyName(t),
	}
	switch i := strings.LastIndexByte(opts.BaseClass, '.'); {
	case opts.BaseClass == "":
		s.DefaultBase = true
		s.Extends = DefaultBase + "<" + s.Model + ">"
	case i < 0:
		s.Extends = opts.BaseClass + "<" + s.Model + ">"
	default:
		s.Extends = opts.BaseClass[i+1:] + "<" + s.Model + ">"
		if opts.BaseClass[:i] != opts.Package {
			s.BaseImport = opts.BaseClass
		}
	}
	for _, f := range t.Key {
		typ := javaType(f)
		if opts.Language == gen.LangKotlin {
			typ = kotlinType(f)
		}
		s.Keys = append(s.Keys, key{Name: f.Name, Type: typ})
	}
	return s
}

// simple returns the simple name of a binary class name.
func simple(class string) string {
	if i := strings.LastIndexAny(class, ".$"); i >= 0 {
		return class[i+1:]
	}
	return class
}

// javaType returns the Java parameter type of a key attribute.
func javaType(f *gen.Field) string {
	if f.Class != "" {
		return simple(f.Class)
	}
	switch f.ScalarName() {
	case gen.ScalarInt.Name:
		return "Long"
	case gen.ScalarFloat.Name:
		return "Double"
	case gen.ScalarBoolean.Name:
		return "Boolean"
	default:
		return "String"
	}
}

var kotlinTypes = map[string]string{
	"int":                 "Int",
	"long":                "Long",
	"short":               "Short",
	"byte":                "Byte",
	"float":               "Float",
	"double":              "Double",
	"boolean":             "Boolean",
	"char":                "Char",
	"java.lang.Integer":   "Int",
	"java.lang.Long":      "Long",
	"java.lang.Short":     "Short",
	"java.lang.Byte":      "Byte",
	"java.lang.Float":     "Float",
	"java.lang.Double":    "Double",
	"java.lang.Boolean":   "Boolean",
	"java.lang.Character": "Char",
	"java.lang.String":    "String",
	"java.lang.Object":    "Any",
}

// kotlinType returns the Kotlin parameter type of a key attribute.
func kotlinType(f *gen.Field) string {
	if t, ok := kotlinTypes[f.Class]; ok {
		return t
	}
	if f.Class == "" {
		switch t := javaType(f); t {
		case "Long", "Double", "Boolean":
			return t
		}
		return "String"
	}
	return simple(f.Class)
}

// packageName returns the last element of a dotted package.
func packageName(pkg string) string {
	if pkg == "" {
		return "repository"
	}
	return path.Base(strings.ReplaceAll(pkg, ".", "/"))
}

// splitQualified splits "import/path.Name" into its import path and name.
func splitQualified(s string) (string, string, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 || strings.LastIndexByte(s, '/') > i {
		return "", "", fmt.Errorf("repository: %q is not a qualified type", s)
	}
	return s[:i], s[i+1:], nil
}
