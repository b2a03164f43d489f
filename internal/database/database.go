// Package database provides the storage abstraction layer for raidsign.
//
// Two layers live here. Database is a thin wrapper over a SurrealDB
// connection (Query, QueryOne, Execute). DocumentStore sits on top of it and
// exposes the generic, key-ordered document collection the rest of the bot is
// written against: insert, query-by-field, get-by-id, delete and a scoped
// multi-delete.
//
// # Collection Paths
//
// Collections are addressed by slash separated paths. A top-level collection
// is a bare name ("raids"); a nested collection alternates document ids and
// collection names ("raids/raids:abc/signups"). Use ChildPath to build them.
//
// # Server Timestamps
//
// Passing ServerTimestamp as a field value asks the store to stamp the field
// with its own clock at write time:
//
//	id, err := store.Insert(ctx, "raids", map[string]interface{}{
//	    "name":      "Naxx",
//	    "createdAt": database.ServerTimestamp,
//	})
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: Record does not exist
//   - ErrConnection: Database connection issues
//   - ErrQuery: Query execution failures
//   - ErrInvalidPath: Malformed collection path or field name
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrConnection) {
//	    // Handle unreachable store
//	}
package database

import (
	"context"
	"errors"
	"strings"
)

// Standard errors for database operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")

	// ErrInvalidPath indicates a collection path or field name the store cannot address.
	ErrInvalidPath = errors.New("invalid collection path")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Document is one stored record: its store-assigned id and its fields.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// DocumentStore is a key-ordered document collection.
//
// Iteration order of Query and List is the store's own and is stable between
// calls with no intervening writes. No multi-document transaction is implied
// except inside a single DeleteMany call.
type DocumentStore interface {
	// Insert creates a document and returns its id.
	Insert(ctx context.Context, path string, fields map[string]interface{}) (string, error)

	// Query returns the documents whose field equals value.
	Query(ctx context.Context, path, field string, value interface{}) ([]Document, error)

	// List returns every document in the collection.
	List(ctx context.Context, path string) ([]Document, error)

	// Get returns the document or nil when it does not exist.
	Get(ctx context.Context, path, id string) (*Document, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, path, id string) error

	// DeleteMany removes all ids atomically: either every id is gone or none is.
	DeleteMany(ctx context.Context, path string, ids []string) error
}

type serverTimestamp struct{}

// ServerTimestamp is a sentinel field value replaced by the store clock on write.
var ServerTimestamp = serverTimestamp{}

// ChildPath returns the path of a collection nested under a document.
func ChildPath(parentPath, id, sub string) string {
	return parentPath + "/" + id + "/" + sub
}

// splitPath breaks a collection path into its leaf collection name and the
// id of the owning document ("" for top-level collections).
func splitPath(path string) (collection, parent string, err error) {
	segments := strings.Split(path, "/")
	if len(segments)%2 == 0 {
		return "", "", ErrInvalidPath
	}
	for i, s := range segments {
		if s == "" {
			return "", "", ErrInvalidPath
		}
		if i%2 == 0 && !isIdentifier(s) {
			return "", "", ErrInvalidPath
		}
	}
	collection = segments[len(segments)-1]
	if len(segments) > 1 {
		parent = segments[len(segments)-2]
	}
	return collection, parent, nil
}

// isIdentifier reports whether s can be used verbatim as a table or field name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
