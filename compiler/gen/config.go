package gen

import (
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied by NewConfig.
const (
	DefaultSchemaFile      = "schema.graphql"
	DefaultFragmentDir     = "fragments"
	DefaultInterfaceSuffix = "Intf"
	DefaultFromName        = "sourceNode"
	DefaultRepositoryDir   = "target/generated-sources/graphql-repos"
	DefaultRepositoryBase  = "AbstractNodeRepository"
)

// Repository languages.
const (
	LangJava   = "java"
	LangKotlin = "kotlin"
	LangGo     = "go"
)

// Config holds the configuration of one generation run.
type Config struct {
	// Index lists the metadata index documents. Later documents never
	// override classes defined by earlier ones.
	Index []string
	// Target is the resource output directory.
	Target string
	// Package is the resource package. Dots become path separators under Target.
	Package string
	// SchemaFile is the schema document name. The constraint script
	// shares its base name.
	SchemaFile string
	// FragmentDir is the fragment directory, relative to the resource directory.
	FragmentDir string
	// QueryDir is the query directory, relative to the resource directory.
	QueryDir string
	// CopyTo receives a copy of the resource tree after a clean run.
	CopyTo string
	// Extensions enables the Neo4j temporal and spatial scalars.
	Extensions bool
	// InterfaceSuffix names abstract superclasses promoted to interfaces.
	InterfaceSuffix string
	// Scalars are user scalar mappings.
	Scalars []ScalarMapping
	// Features are the enabled optional outputs.
	Features []Feature
	// Verify parses every rendered document before it is written.
	Verify bool
	// Strict turns model errors into a failed run.
	Strict bool
	// Workers bounds parallel writes. Zero means GOMAXPROCS.
	Workers int
	// SourceRoots are scanned for hand-maintained queries and repositories.
	SourceRoots []string
	// Repository configures repository stub generation.
	Repository *RepositoryConfig
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// RepositoryConfig configures repository stub generation.
type RepositoryConfig struct {
	// Dir is the source output root.
	Dir string
	// Language is one of java, kotlin or go.
	Language string
	// Package is resolved against the resource package, see Config.RepositoryPackage.
	Package string
	// BaseClass overrides the generated base class (java, kotlin) or the
	// qualified generic base type (go).
	BaseClass string
	// ModelPackage is the import path of the model types (go).
	ModelPackage string
}

func defaultConfig() *Config {
	return &Config{
		SchemaFile:      DefaultSchemaFile,
		FragmentDir:     DefaultFragmentDir,
		InterfaceSuffix: DefaultInterfaceSuffix,
		Repository: &RepositoryConfig{
			Dir:      DefaultRepositoryDir,
			Language: LangJava,
		},
		Logger: zap.NewNop(),
	}
}

// log returns the configured logger.
func (c *Config) log() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Config) suffix() string {
	if c == nil || c.InterfaceSuffix == "" {
		return DefaultInterfaceSuffix
	}
	return c.InterfaceSuffix
}

// PackagePath converts a dotted package name to a relative path.
func PackagePath(pkg string) string {
	if pkg == "" {
		return ""
	}
	return filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/"))
}

// ResourceDir is the directory holding every resource document.
func (c *Config) ResourceDir() string {
	return filepath.Join(c.Target, PackagePath(c.Package))
}

// SchemaFileName returns the schema document name.
func (c *Config) SchemaFileName() string {
	if c.SchemaFile == "" {
		return DefaultSchemaFile
	}
	return c.SchemaFile
}

// ConstraintFileName returns the constraint script name, derived from
// the schema document name.
func (c *Config) ConstraintFileName() string {
	name := c.SchemaFileName()
	if strings.HasSuffix(name, ".graphql") {
		return strings.TrimSuffix(name, ".graphql") + ".constraint"
	}
	return name + ".constraint"
}

// FragmentPath is the fragment directory relative to the resource directory.
func (c *Config) FragmentPath() string {
	if c.FragmentDir == "" {
		return DefaultFragmentDir
	}
	return c.FragmentDir
}

// QueryPath is the query directory relative to the resource directory.
func (c *Config) QueryPath() string {
	return filepath.Clean(c.QueryDir)
}

// RepositoryPackage resolves the repository package name:
// blank gives <package>.repository, a bare name is appended to the
// resource package, a dotted name is used as is.
func (c *Config) RepositoryPackage() string {
	var pkg string
	if c.Repository != nil {
		pkg = strings.TrimSpace(c.Repository.Package)
	}
	join := func(name string) string {
		if c.Package == "" {
			return name
		}
		return c.Package + "." + name
	}
	switch {
	case pkg == "":
		return join("repository")
	case !strings.Contains(pkg, "."):
		return join(pkg)
	default:
		return pkg
	}
}

// RepositoryDir is the directory of the repository package.
func (c *Config) RepositoryDir() string {
	dir := DefaultRepositoryDir
	if c.Repository != nil && c.Repository.Dir != "" {
		dir = c.Repository.Dir
	}
	return filepath.Join(dir, PackagePath(c.RepositoryPackage()))
}

// RepositoryLanguage returns the configured language, java by default.
func (c *Config) RepositoryLanguage() string {
	if c.Repository == nil || c.Repository.Language == "" {
		return LangJava
	}
	return c.Repository.Language
}

// WorkerCount returns the effective write parallelism.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Cleanup runs the cleanup hook of every disabled feature, removing
// documents left behind by earlier runs.
func (c *Config) Cleanup() error {
	for _, f := range AllFeatures {
		if f.cleanup == nil || c.FeatureEnabled(f.Name) {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return NewGenerationError("cleanup", f.Name, "remove stale documents", err)
		}
	}
	return nil
}
