// Package compiler runs the generation pipeline: it loads the metadata
// index, builds and validates the schema model, renders every enabled
// document and writes the results.
package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler/gen"
	"github.com/syssam/graphgen/compiler/load"
	"github.com/syssam/graphgen/contrib/cypher"
	"github.com/syssam/graphgen/contrib/graphql"
	"github.com/syssam/graphgen/contrib/repository"
)

// Result describes a generation run.
type Result struct {
	// RunID tags the log entries of the run.
	RunID string
	Graph *gen.Graph
	// Errors holds the model errors, scan errors first.
	Errors []error
	// Resources lists the resource documents written, relative to the
	// resource directory.
	Resources []string
	// Repositories lists the repository stubs written, relative to the
	// repository package directory.
	Repositories []string
	// Copied reports whether the resources were copied to Config.CopyTo.
	Copied  bool
	Metrics gen.WriterMetrics
}

// Err joins the model errors of the run. It is nil for a clean run.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Generate runs the pipeline configured by cfg. Model errors never stop
// the run, they are collected in the result and the offending classes are
// left out of the output. The returned error is set for fatal failures
// only: a missing index, an invalid document or an I/O error.
func Generate(ctx context.Context, cfg *gen.Config) (*Result, error) {
	if cfg == nil {
		return nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	if cfg.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "target directory is required")
	}
	res := &Result{RunID: uuid.NewString()}
	log := logger(cfg).With(zap.String("run", res.RunID))

	g, errs, err := model(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	res.Graph, res.Errors = g, errs
	if err := ctx.Err(); err != nil {
		return res, err
	}

	docs, err := render(res.Graph, cfg)
	if err != nil {
		return res, err
	}
	if err := cfg.Cleanup(); err != nil {
		return res, err
	}

	w := gen.NewWriter(gen.NewFileSink(cfg.ResourceDir())).WithWorkers(cfg.WorkerCount())
	if err := w.Write(ctx, docs...); err != nil {
		return res, err
	}
	for _, d := range docs {
		res.Resources = append(res.Resources, d.Path)
	}
	log.Info("write resources", zap.String("dir", cfg.ResourceDir()), zap.Int("files", len(docs)))

	if cfg.CopyTo != "" && len(res.Errors) == 0 {
		dir := filepath.Join(cfg.CopyTo, gen.PackagePath(cfg.Package))
		if err := gen.NewWriter(gen.NewFileSink(dir)).WithWorkers(cfg.WorkerCount()).Write(ctx, docs...); err != nil {
			return res, err
		}
		res.Copied = true
		log.Info("copy resources", zap.String("dir", dir))
	}

	if cfg.FeatureEnabled(gen.FeatureRepositories.Name) {
		if res.Repositories, err = repositories(ctx, res.Graph, cfg, log); err != nil {
			return res, err
		}
	}
	res.Metrics = w.Metrics()
	return res, nil
}

// Model loads the index and builds the validated schema model without
// rendering anything. Model errors are returned with the graph.
func Model(ctx context.Context, cfg *gen.Config) (*gen.Graph, []error, error) {
	if cfg == nil {
		return nil, nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	return model(ctx, cfg, logger(cfg))
}

func model(ctx context.Context, cfg *gen.Config, log *zap.Logger) (*gen.Graph, []error, error) {
	log.Info("load index", zap.Strings("index", cfg.Index))
	idx, err := load.Open(cfg.Index...)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	log.Info("build schema model")
	g, errs := gen.Scan(cfg, idx, load.NewIndexLoader(idx))
	if len(errs) > 0 {
		for _, err := range errs {
			log.Warn("model error", zap.Error(err))
		}
		log.Warn("schema model built with errors, generated output will be incomplete", zap.Int("errors", len(errs)))
	} else {
		log.Info("schema model built", zap.Int("types", len(g.Types())))
	}
	return g, errs, nil
}

func logger(cfg *gen.Config) *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

// render renders the documents of every enabled feature. When
// verification is enabled, they are parsed before anything is written.
func render(g *gen.Graph, cfg *gen.Config) ([]gen.Document, error) {
	var (
		schema    = graphql.SchemaDocument(g)
		docs      = []gen.Document{schema}
		fragments []gen.Document
		queries   []gen.Document
	)
	if cfg.FeatureEnabled(gen.FeatureFragments.Name) {
		fragments = graphql.Fragments(g)
		docs = append(docs, fragments...)
	}
	if cfg.FeatureEnabled(gen.FeatureConstraints.Name) {
		docs = append(docs, cypher.ConstraintDocument(g))
	}
	if cfg.FeatureEnabled(gen.FeatureQueries.Name) {
		dir := filepath.Join(gen.PackagePath(cfg.Package), cfg.QueryPath())
		queries = graphql.Queries(g, func(_ *gen.Type, file string) bool {
			return file == "" || !sourceExists(cfg.SourceRoots, dir, file)
		})
		docs = append(docs, queries...)
	}
	if cfg.Verify {
		if err := graphql.Verify(schema, fragments, queries); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// repositories writes the repository stubs and removes the stale files
// of the repository package directory.
func repositories(ctx context.Context, g *gen.Graph, cfg *gen.Config, log *zap.Logger) ([]string, error) {
	dir := cfg.RepositoryDir()
	pkgPath := gen.PackagePath(cfg.RepositoryPackage())
	opts := repository.OptionsFrom(cfg)
	opts.Logger = log
	opts.Exists = func(file string) bool {
		return sourceExists(cfg.SourceRoots, pkgPath, file)
	}
	w := gen.NewWriter(gen.NewFileSink(dir)).WithWorkers(cfg.WorkerCount())
	paths, err := repository.Generate(ctx, g, w, opts)
	if err != nil {
		return nil, err
	}
	if err := repository.Prune(dir, paths); err != nil {
		return nil, gen.NewGenerationError("prune", dir, "remove stale repositories", err)
	}
	log.Info("write repositories", zap.String("dir", dir), zap.Int("files", len(paths)))
	return paths, nil
}

// sourceExists reports whether a hand-maintained file named file exists
// in the directory dir of any source root.
func sourceExists(roots []string, dir, file string) bool {
	for _, root := range roots {
		info, err := os.Stat(filepath.Join(root, dir, file))
		if err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}
