package database

// Batch utilities for atomic multi-statement writes.
//
// AtomicBatch accumulates statements and runs them inside a single
// BEGIN/COMMIT block, so they succeed or fail together:
//
//	batch := NewAtomicBatch()
//	batch.Add("DELETE type::record($id)", map[string]interface{}{"id": a})
//	batch.Add("DELETE type::record($id)", map[string]interface{}{"id": b})
//	batch.Execute(ctx, db)
//
// Variables are namespaced per statement by TxBuilder ($id -> $v1_id, $v2_id)
// so statements reusing a variable name do not collide.

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// TxBuilder assembles statements into one BEGIN/COMMIT block, renaming each
// statement's variables so that reused names do not collide.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{vars: make(map[string]interface{})}
}

// Add appends a statement and returns the original -> namespaced variable names
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	mapping := make(map[string]string, len(vars))
	for name, value := range vars {
		n := atomic.AddUint64(&tb.varCounter, 1)
		renamed := fmt.Sprintf("v%d_%s", n, name)
		query = strings.ReplaceAll(query, "$"+name, "$"+renamed)
		tb.vars[renamed] = value
		mapping[name] = renamed
	}
	tb.statements = append(tb.statements, query)
	return mapping
}

// Build returns the transaction text and the merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")
	return sb.String(), tb.vars
}

// ExecuteTransaction runs everything added to tb as one transaction
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}

// AtomicBatch provides a simpler API for batch operations that should be atomic
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		queries: make([]batchQuery, 0),
	}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute runs all queries as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.queries) == 0 {
		return nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	_, err := ExecuteTransaction(ctx, db, tb)
	return err
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
