package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureFragments writes one fragment document per schema type.
	FeatureFragments = Feature{
		Name:        "fragments",
		Stage:       Stable,
		Default:     true,
		Description: "Fragments writes a <Type>Fields fragment for every schema type",
		cleanup: func(c *Config) error {
			return removeAll(filepath.Join(c.ResourceDir(), c.FragmentPath()), ".fragment")
		},
	}

	// FeatureConstraints writes the Cypher index and constraint script.
	FeatureConstraints = Feature{
		Name:        "constraints",
		Stage:       Stable,
		Default:     true,
		Description: "Constraints writes a Cypher script creating a unique constraint for every single-key node",
		cleanup: func(c *Config) error {
			return remove(c.ResourceDir(), c.ConstraintFileName())
		},
	}

	// FeatureQueries writes get-all and get-by-key query documents.
	FeatureQueries = Feature{
		Name:        "queries",
		Stage:       Beta,
		Default:     false,
		Description: "Queries writes get-all and get-by-key query documents following cascading relationships",
		cleanup: func(c *Config) error {
			return removeAll(filepath.Join(c.ResourceDir(), c.QueryPath()), ".query")
		},
	}

	// FeatureRepositories writes repository source stubs. Stale stubs are
	// pruned by the pipeline when the feature is enabled.
	FeatureRepositories = Feature{
		Name:        "repositories",
		Stage:       Alpha,
		Default:     false,
		Description: "Repositories writes a repository source stub for every node type",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureFragments,
		FeatureConstraints,
		FeatureQueries,
		FeatureRepositories,
	}
)

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var fs []Feature
	for _, f := range AllFeatures {
		if f.Default {
			fs = append(fs, f)
		}
	}
	return fs
}

// FeatureByName looks up a feature.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features have been in use for a while.
	Stable
)

// A Feature of the generator.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}

// removeAll removes every regular file with the given extension from dir.
func removeAll(dir, ext string) error {
	infos, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, info := range infos {
		if info.Type().IsRegular() && filepath.Ext(info.Name()) == ext {
			if err := remove(dir, info.Name()); err != nil {
				return err
			}
		}
	}
	return nil
}
