// Package neo4j implements the graph store port on top of the Neo4j
// bolt driver. Every query is bounded: traversal depth is written into
// the Cypher, never recursive.
package neo4j

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
	"github.com/fleetscope/fleetscope/internal/errors"
)

// defaultProductionMarkers matches the cluster names treated as
// production when no markers are configured.
var defaultProductionMarkers = []string{"prod"}

// Store is the Neo4j-backed implementation of graph.Store.
type Store struct {
	driver            neo4j.DriverWithContext
	database          string
	productionMarkers []string
	logger            *slog.Logger
}

var _ graph.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithDatabase selects a named database instead of the server default.
func WithDatabase(name string) Option {
	return func(s *Store) {
		s.database = name
	}
}

// WithProductionMarkers sets the substrings that mark a cluster name as
// production for risk scoring.
func WithProductionMarkers(markers []string) Option {
	return func(s *Store) {
		if len(markers) > 0 {
			s.productionMarkers = markers
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Connect opens a driver against uri and verifies connectivity. An
// unreachable store is fatal here: nothing downstream can run without
// it, so there is no lazy-connect fallback.
func Connect(ctx context.Context, uri, user, password string, opts ...Option) (*Store, error) {
	const op = "neo4j.Connect"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.GraphWrapSafe(err, op, "failed to create driver")
	}

	s := &Store{
		driver:            driver,
		productionMarkers: defaultProductionMarkers,
		logger:            slog.Default().With("component", "neo4j"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	s.logger.Debug("connected to graph store", "database", s.database)
	return s, nil
}

// VerifyConnectivity checks the store is reachable.
func (s *Store) VerifyConnectivity(ctx context.Context) error {
	const op = "neo4j.VerifyConnectivity"

	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return errors.GraphWrapSafe(err, op, "graph store unreachable")
	}
	return nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	const op = "neo4j.Close"

	if err := s.driver.Close(ctx); err != nil {
		return errors.GraphWrapSafe(err, op, "failed to close driver")
	}
	return nil
}

// read runs one Cypher query in a read transaction and collects all
// records eagerly.
func (s *Store) read(ctx context.Context, op, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	collected, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, errors.GraphWrapSafe(err, op, "query failed")
	}

	records, ok := collected.([]*neo4j.Record)
	if !ok {
		return nil, errors.Graph(op, "unexpected result shape from driver")
	}
	return records, nil
}

// statement pairs a Cypher string with its parameters for batched
// writes.
type statement struct {
	cypher string
	params map[string]any
}

// write runs the statements in order inside one write transaction.
func (s *Store) write(ctx context.Context, op string, statements ...statement) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range statements {
			result, err := tx.Run(ctx, st.cypher, st.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.GraphWrapSafe(err, op, "write failed")
	}
	return nil
}
