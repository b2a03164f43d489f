package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/surrealdb/surrealdb.go"
)

// SurrealDB implements the Database interface over a SurrealDB websocket
// connection. The connection can be replaced with Reconnect while queries
// are in flight.
type SurrealDB struct {
	mu     sync.RWMutex
	db     *surrealdb.DB
	config Config
}

// NewSurrealDB creates a new SurrealDB instance
func NewSurrealDB(cfg Config) *SurrealDB {
	return &SurrealDB{
		config: cfg,
	}
}

func (s *SurrealDB) endpoint() string {
	return fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)
}

// Connect dials SurrealDB, signs in and selects the raid namespace
func (s *SurrealDB) Connect(ctx context.Context) error {
	db, err := s.dial(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old := s.db
	s.db = db
	s.mu.Unlock()

	if old != nil {
		_ = old.Close(context.Background())
	}
	return nil
}

// Reconnect replaces the current connection with a fresh one. The old
// connection is kept if dialing fails.
func (s *SurrealDB) Reconnect(ctx context.Context) error {
	if err := s.Connect(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "reconnected to raid store",
		slog.String("endpoint", s.endpoint()),
		slog.String("namespace", s.config.Namespace),
	)
	return nil
}

func (s *SurrealDB) dial(ctx context.Context) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, s.endpoint())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}
	return db, nil
}

func (s *SurrealDB) conn() *surrealdb.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Close closes the database connection. Closing twice is a no-op.
func (s *SurrealDB) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()

	if db != nil {
		return db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealDB) Ping(ctx context.Context) error {
	db := s.conn()
	if db == nil {
		return ErrConnection
	}
	if _, err := db.Version(ctx); err != nil {
		return classifyError(err)
	}
	return nil
}

// Query executes a query and returns results. A dropped connection is
// reported as ErrConnection, anything else as ErrQuery.
func (s *SurrealDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	db := s.conn()
	if db == nil {
		return nil, ErrConnection
	}

	start := time.Now()
	results, err := surrealdb.Query[interface{}](ctx, db, query, vars)
	if err != nil {
		err = classifyError(err)
		slog.DebugContext(ctx, "raid store query failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, map[string]interface{}{
			"status": r.Status,
			"result": r.Result,
		})
	}

	return output, nil
}

// classifyError separates a lost connection from a failed statement.
// The websocket transport surfaces a dropped socket as net.ErrClosed,
// io.ErrClosedPipe or a gorilla close error.
func classifyError(err error) error {
	var closeErr *websocket.CloseError
	var netErr net.Error
	switch {
	case errors.Is(err, ErrConnection), errors.Is(err, ErrQuery):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// the caller gave up; the connection may be fine
		return fmt.Errorf("%w: %w", ErrQuery, err)
	case errors.Is(err, net.ErrClosed),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, io.EOF),
		errors.Is(err, websocket.ErrCloseSent),
		errors.As(err, &closeErr),
		errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", ErrQuery, err)
}

// QueryOne executes a query and returns the first record of the first
// statement, or ErrNotFound when it returned none
func (s *SurrealDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	first := results[0]
	if resp, ok := first.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if rows, ok := resp["result"].([]interface{}); ok {
				if len(rows) == 0 {
					return nil, ErrNotFound
				}
				return rows[0], nil
			}
			// scalar results, e.g. count()
			return resp["result"], nil
		}
	}

	return first, nil
}

// Execute runs a query without returning results
func (s *SurrealDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.Query(ctx, query, vars)
	return err
}
