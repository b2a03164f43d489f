package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// parentField links a nested document to the document that owns its collection.
const parentField = "_parent"

// SurrealStore implements DocumentStore on SurrealDB.
//
// Each leaf collection name maps to a table of the same name. Documents of a
// nested collection carry the owning document id in the _parent field, so
// "raids/raids:abc/signups" is the rows of table signups whose _parent is
// "raids:abc". Iteration order is SurrealDB's record order.
type SurrealStore struct {
	db Database
}

// NewSurrealStore creates a document store over an open connection
func NewSurrealStore(db Database) *SurrealStore {
	return &SurrealStore{db: db}
}

// Insert creates a document, stamping ServerTimestamp fields with time::now()
func (s *SurrealStore) Insert(ctx context.Context, path string, fields map[string]interface{}) (string, error) {
	collection, parent, err := splitPath(path)
	if err != nil {
		return "", err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !isIdentifier(k) || k == parentField || k == "id" {
			return "", fmt.Errorf("%w: field %q", ErrInvalidPath, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := map[string]interface{}{"tb": collection}
	assignments := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		if _, ok := fields[k].(serverTimestamp); ok {
			assignments = append(assignments, k+" = time::now()")
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = $f_%s", k, k))
		vars["f_"+k] = fields[k]
	}
	if parent != "" {
		assignments = append(assignments, parentField+" = $parent")
		vars["parent"] = parent
	}

	query := "CREATE type::table($tb)"
	if len(assignments) > 0 {
		query += " SET " + strings.Join(assignments, ", ")
	}

	result, err := s.db.Query(ctx, query, vars)
	if err != nil {
		return "", err
	}

	rows := resultRows(result)
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: create returned no record", ErrQuery)
	}
	id := recordIDString(rows[0]["id"])
	if id == "" {
		return "", fmt.Errorf("%w: create returned no id", ErrQuery)
	}
	return id, nil
}

// Query returns the documents of path whose field equals value
func (s *SurrealStore) Query(ctx context.Context, path, field string, value interface{}) ([]Document, error) {
	if !isIdentifier(field) {
		return nil, fmt.Errorf("%w: field %q", ErrInvalidPath, field)
	}
	return s.selectDocs(ctx, path, field+" = $value", map[string]interface{}{"value": value})
}

// List returns every document of path
func (s *SurrealStore) List(ctx context.Context, path string) ([]Document, error) {
	return s.selectDocs(ctx, path, "", nil)
}

func (s *SurrealStore) selectDocs(ctx context.Context, path, cond string, vars map[string]interface{}) ([]Document, error) {
	collection, parent, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	if vars == nil {
		vars = make(map[string]interface{})
	}
	vars["tb"] = collection

	var where []string
	if parent != "" {
		where = append(where, parentField+" = $parent")
		vars["parent"] = parent
	}
	if cond != "" {
		where = append(where, cond)
	}

	query := "SELECT * FROM type::table($tb)"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	result, err := s.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows := resultRows(result)
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, toDocument(row))
	}
	return docs, nil
}

// Get returns the document with id, or nil if it is not in path
func (s *SurrealStore) Get(ctx context.Context, path, id string) (*Document, error) {
	collection, parent, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if !ownsID(collection, id) {
		return nil, nil
	}

	result, err := s.db.QueryOne(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	row, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	if p, _ := row[parentField].(string); p != parent {
		return nil, nil
	}

	doc := toDocument(row)
	return &doc, nil
}

// Delete removes the document with id
func (s *SurrealStore) Delete(ctx context.Context, path, id string) error {
	collection, _, err := splitPath(path)
	if err != nil {
		return err
	}
	if !ownsID(collection, id) {
		return fmt.Errorf("%w: %s is not a %s record", ErrInvalidPath, id, collection)
	}
	return s.db.Execute(ctx, "DELETE type::record($id)", map[string]interface{}{"id": id})
}

// DeleteMany removes ids inside one transaction
func (s *SurrealStore) DeleteMany(ctx context.Context, path string, ids []string) error {
	collection, _, err := splitPath(path)
	if err != nil {
		return err
	}

	batch := NewAtomicBatch()
	for _, id := range ids {
		if !ownsID(collection, id) {
			return fmt.Errorf("%w: %s is not a %s record", ErrInvalidPath, id, collection)
		}
		batch.Add("DELETE type::record($id)", map[string]interface{}{"id": id})
	}
	return batch.Execute(ctx, s.db)
}

func ownsID(collection, id string) bool {
	return strings.HasPrefix(id, collection+":") && len(id) > len(collection)+1
}

// resultRows flattens the {status, result} wrappers returned by Database.Query
func resultRows(results []interface{}) []map[string]interface{} {
	var rows []map[string]interface{}
	for _, r := range results {
		resp, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		data, ok := resp["result"].([]interface{})
		if !ok {
			if row, ok := resp["result"].(map[string]interface{}); ok {
				rows = append(rows, row)
			}
			continue
		}
		for _, item := range data {
			if row, ok := item.(map[string]interface{}); ok {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func toDocument(row map[string]interface{}) Document {
	doc := Document{
		ID:     recordIDString(row["id"]),
		Fields: make(map[string]interface{}, len(row)),
	}
	for k, v := range row {
		if k == "id" || k == parentField {
			continue
		}
		doc.Fields[k] = normalizeValue(v)
	}
	return doc
}

// normalizeValue converts driver-specific scalar types to plain Go values
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
		return time.Time{}
	case models.RecordID, *models.RecordID:
		return recordIDString(t)
	}
	return v
}

// recordIDString renders a SurrealDB record id as "table:id"
func recordIDString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		raw, ok := v["id"]
		if !ok {
			raw = v["ID"]
		}
		if tb != "" && raw != nil {
			return fmt.Sprintf("%s:%v", tb, raw)
		}
	}

	if data, err := json.Marshal(id); err == nil {
		var rid models.RecordID
		if err := json.Unmarshal(data, &rid); err == nil && rid.Table != "" {
			return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
		}
	}
	return ""
}
