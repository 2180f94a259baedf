package cypher

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Runner executes a single Cypher statement.
type Runner interface {
	Run(ctx context.Context, statement string) error
}

// Apply runs the statements of script in order and returns how many
// succeeded. It stops at the first failure.
func Apply(ctx context.Context, r Runner, script string, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	stmts := Statements(script)
	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		log.Debug("apply statement", zap.Int("index", i), zap.String("statement", stmt))
		if err := r.Run(ctx, stmt); err != nil {
			return i, fmt.Errorf("cypher: statement %d: %w", i+1, err)
		}
	}
	log.Info("applied constraints", zap.Int("statements", len(stmts)))
	return len(stmts), nil
}

// Neo4jConfig holds the connection settings of a Neo4jRunner.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	// Database is the target database. Empty means the server default.
	Database string
}

// Neo4jRunner runs statements against a Neo4j database.
type Neo4jRunner struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// NewNeo4jRunner connects to the database described by c and verifies
// the connection.
func NewNeo4jRunner(ctx context.Context, c Neo4jConfig) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(c.URI, neo4j.BasicAuth(c.Username, c.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("cypher: create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("cypher: connect to %s: %w", c.URI, err)
	}
	return &Neo4jRunner{Driver: driver, Database: c.Database}, nil
}

// Run implements Runner.
func (r *Neo4jRunner) Run(ctx context.Context, statement string) error {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if r.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(r.Database))
	}
	_, err := neo4j.ExecuteQuery(ctx, r.Driver, statement, nil, neo4j.EagerResultTransformer, opts...)
	return err
}

// Close closes the driver.
func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.Driver.Close(ctx)
}
