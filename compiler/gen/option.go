package gen

import (
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Option configures code generation.
type Option func(*Config) error

// WithIndex sets the metadata index documents.
func WithIndex(paths ...string) Option {
	return func(c *Config) error {
		if len(paths) == 0 {
			return NewConfigError("Index", nil, "at least one index document is required")
		}
		c.Index = append([]string(nil), paths...)
		return nil
	}
}

// WithTarget sets the resource output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the resource package, for example "com.acme.graphql".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if strings.ContainsAny(pkg, `/\ `) {
			return NewConfigError("Package", pkg, "package must be a dotted name")
		}
		c.Package = pkg
		return nil
	}
}

// WithSchemaFile sets the schema document name.
func WithSchemaFile(name string) Option {
	return func(c *Config) error {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return NewConfigError("SchemaFile", name, "schema file must be a plain file name")
		}
		c.SchemaFile = name
		return nil
	}
}

// WithFragmentDir sets the fragment directory.
func WithFragmentDir(dir string) Option {
	return func(c *Config) error {
		c.FragmentDir = dir
		return nil
	}
}

// WithQueryDir sets the query directory.
func WithQueryDir(dir string) Option {
	return func(c *Config) error {
		c.QueryDir = dir
		return nil
	}
}

// WithCopyTo sets the directory receiving a copy of the resources.
func WithCopyTo(dir string) Option {
	return func(c *Config) error {
		c.CopyTo = dir
		return nil
	}
}

// WithExtensions toggles the Neo4j scalar set.
func WithExtensions(enabled bool) Option {
	return func(c *Config) error {
		c.Extensions = enabled
		return nil
	}
}

// WithInterfaceSuffix sets the suffix of promoted superclass interfaces.
func WithInterfaceSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" {
			return NewConfigError("InterfaceSuffix", nil, "suffix cannot be empty")
		}
		c.InterfaceSuffix = suffix
		return nil
	}
}

// WithScalars adds user scalar mappings.
func WithScalars(mappings ...ScalarMapping) Option {
	return func(c *Config) error {
		for _, m := range mappings {
			if m.Name == "" {
				return NewConfigError("Scalars", m.Classes, "scalar mapping requires a name")
			}
			if len(m.Classes) == 0 {
				return NewConfigError("Scalars", m.Name, "scalar mapping requires at least one class")
			}
		}
		c.Scalars = append(c.Scalars, mappings...)
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.FeatureEnabled(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			if !c.FeatureEnabled(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithVerify toggles parsing of rendered documents.
func WithVerify(enabled bool) Option {
	return func(c *Config) error {
		c.Verify = enabled
		return nil
	}
}

// WithStrict makes model errors fail the run.
func WithStrict(enabled bool) Option {
	return func(c *Config) error {
		c.Strict = enabled
		return nil
	}
}

// WithWorkers bounds parallel writes.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithSourceRoots sets the roots searched for hand-maintained sources.
func WithSourceRoots(roots ...string) Option {
	return func(c *Config) error {
		c.SourceRoots = append(c.SourceRoots, roots...)
		return nil
	}
}

// WithRepository sets the repository stub configuration.
func WithRepository(rc *RepositoryConfig) Option {
	return func(c *Config) error {
		if rc == nil {
			return NewConfigError("Repository", nil, "repository config cannot be nil")
		}
		switch rc.Language {
		case "", LangJava, LangKotlin, LangGo:
		default:
			return NewConfigError("Repository.Language", rc.Language, "unsupported language; use java, kotlin, or go")
		}
		c.Repository = rc
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
