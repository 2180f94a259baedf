// Package config loads the graphgen.yaml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/contrib/cypher"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "graphgen.yaml"

var validate = validator.New()

// Config is the content of the configuration file.
type Config struct {
	Index      []string         `mapstructure:"index" yaml:"index" validate:"required,min=1,dive,required"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Scalars    ScalarsConfig    `mapstructure:"scalars" yaml:"scalars"`
	Features   []string         `mapstructure:"features" yaml:"features" validate:"dive,oneof=fragments constraints queries repositories"`
	Verify     bool             `mapstructure:"verify" yaml:"verify"`
	Strict     bool             `mapstructure:"strict" yaml:"strict"`
	Workers    int              `mapstructure:"workers" yaml:"workers" validate:"min=0"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j" yaml:"neo4j"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// OutputConfig configures the resource documents.
type OutputConfig struct {
	Dir         string `mapstructure:"dir" yaml:"dir" validate:"required"`
	Package     string `mapstructure:"package" yaml:"package"`
	SchemaFile  string `mapstructure:"schema_file" yaml:"schema_file" validate:"required"`
	FragmentDir string `mapstructure:"fragment_dir" yaml:"fragment_dir"`
	QueryDir    string `mapstructure:"query_dir" yaml:"query_dir"`
	CopyTo      string `mapstructure:"copy_to" yaml:"copy_to"`
}

// ScalarsConfig configures the scalar registry.
type ScalarsConfig struct {
	Extensions      bool                `mapstructure:"extensions" yaml:"extensions"`
	InterfaceSuffix string              `mapstructure:"interface_suffix" yaml:"interface_suffix" validate:"required"`
	Mappings        []gen.ScalarMapping `mapstructure:"mappings" yaml:"mappings,omitempty" validate:"dive"`
}

// RepositoryConfig configures repository stubs.
type RepositoryConfig struct {
	Dir          string   `mapstructure:"dir" yaml:"dir" validate:"required"`
	Language     string   `mapstructure:"language" yaml:"language" validate:"oneof=java kotlin go"`
	Package      string   `mapstructure:"package" yaml:"package"`
	BaseClass    string   `mapstructure:"base_class" yaml:"base_class" validate:"required_if=Language go"`
	ModelPackage string   `mapstructure:"model_package" yaml:"model_package" validate:"required_if=Language go"`
	SourceRoots  []string `mapstructure:"source_roots" yaml:"source_roots"`
}

// Neo4jConfig is the database the constraint script is applied to.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri" validate:"omitempty,uri"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	Database string `mapstructure:"database" yaml:"database,omitempty"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("index", []string{"build/index.yaml"})
	v.SetDefault("output.dir", "target/generated-resources/graphql-schema")
	v.SetDefault("output.package", "")
	v.SetDefault("output.schema_file", gen.DefaultSchemaFile)
	v.SetDefault("output.fragment_dir", gen.DefaultFragmentDir)
	v.SetDefault("output.query_dir", "")
	v.SetDefault("output.copy_to", "")
	v.SetDefault("scalars.extensions", false)
	v.SetDefault("scalars.interface_suffix", gen.DefaultInterfaceSuffix)
	v.SetDefault("features", []string{gen.FeatureFragments.Name, gen.FeatureConstraints.Name})
	v.SetDefault("verify", true)
	v.SetDefault("strict", false)
	v.SetDefault("workers", 0)
	v.SetDefault("repository.dir", gen.DefaultRepositoryDir)
	v.SetDefault("repository.language", gen.LangJava)
	v.SetDefault("repository.package", "")
	v.SetDefault("repository.base_class", "")
	v.SetDefault("repository.model_package", "")
	v.SetDefault("repository.source_roots", []string{"src/main/java"})
	v.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads the configuration file at path, or graphgen.yaml in the
// working directory when path is empty. A missing graphgen.yaml is not an
// error, the defaults are used. Every key can be overridden by a
// GRAPHGEN_ environment variable, for example GRAPHGEN_NEO4J_PASSWORD.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("GRAPHGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Write writes the configuration as YAML to path. An existing file is
// never overwritten.
func (c *Config) Write(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Options converts the configuration to generator options.
func (c *Config) Options() []gen.Option {
	return []gen.Option{
		gen.WithIndex(c.Index...),
		gen.WithTarget(c.Output.Dir),
		gen.WithPackage(c.Output.Package),
		gen.WithSchemaFile(c.Output.SchemaFile),
		gen.WithFragmentDir(c.Output.FragmentDir),
		gen.WithQueryDir(c.Output.QueryDir),
		gen.WithCopyTo(c.Output.CopyTo),
		gen.WithExtensions(c.Scalars.Extensions),
		gen.WithInterfaceSuffix(c.Scalars.InterfaceSuffix),
		gen.WithScalars(c.Scalars.Mappings...),
		gen.WithFeatureNames(c.Features...),
		gen.WithVerify(c.Verify),
		gen.WithStrict(c.Strict),
		gen.WithWorkers(c.Workers),
		gen.WithSourceRoots(c.Repository.SourceRoots...),
		gen.WithRepository(&gen.RepositoryConfig{
			Dir:          c.Repository.Dir,
			Language:     c.Repository.Language,
			Package:      c.Repository.Package,
			BaseClass:    c.Repository.BaseClass,
			ModelPackage: c.Repository.ModelPackage,
		}),
	}
}

// GenConfig builds the generator configuration, applying opts after the
// options of the file.
func (c *Config) GenConfig(log *zap.Logger, opts ...gen.Option) (*gen.Config, error) {
	all := c.Options()
	if log != nil {
		all = append(all, gen.WithLogger(log))
	}
	return gen.NewConfig(append(all, opts...)...)
}

// Cypher returns the connection settings of the constraint runner.
func (c Neo4jConfig) Cypher() cypher.Neo4jConfig {
	return cypher.Neo4jConfig{URI: c.URI, Username: c.Username, Password: c.Password, Database: c.Database}
}

// Logger builds the logger described by c.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	if c.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
