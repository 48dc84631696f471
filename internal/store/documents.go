// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/institute-go/internal/metrics"
	"github.com/olegiv/institute-go/internal/model"
)

// DocumentStore is the remote document store: collections of flat
// documents addressed by opaque keys. It is the single source of truth
// for content; callers may cache what it returns but never the reverse.
type DocumentStore interface {
	// List returns every document of a collection in display order.
	List(ctx context.Context, coll model.CollectionID) ([]model.ContentItem, error)
	// Get returns one document or model.ErrNotFound.
	Get(ctx context.Context, coll model.CollectionID, key string) (model.ContentItem, error)
	// Create stores a new document under a freshly assigned key.
	Create(ctx context.Context, coll model.CollectionID, fields model.Fields) (model.ContentItem, error)
	// Put creates or replaces the document stored under key.
	Put(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (model.ContentItem, error)
	// Update replaces the fields of an existing document or returns model.ErrNotFound.
	Update(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (model.ContentItem, error)
	// Delete removes a document. Deleting a missing key is not an error.
	Delete(ctx context.Context, coll model.CollectionID, key string) error
	// Count returns the number of documents in a collection.
	Count(ctx context.Context, coll model.CollectionID) (int, error)
}

// SQLStore implements DocumentStore on database/sql.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a SQLStore over an opened and migrated database.
func New(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// DB returns the underlying database handle.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

const selectDocument = `SELECT doc_key, data, position, created_at, updated_at FROM documents`

// List returns every document of a collection in display order.
func (s *SQLStore) List(ctx context.Context, coll model.CollectionID) (items []model.ContentItem, err error) {
	defer observe("list", coll, time.Now(), &err)

	rows, err := s.db.QueryContext(ctx,
		selectDocument+` WHERE collection = ? ORDER BY position, created_at, doc_key`, string(coll))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", coll, err)
	}
	defer func() { _ = rows.Close() }()

	items = []model.ContentItem{}
	for rows.Next() {
		item, err := scanDocument(rows, coll)
		if err != nil {
			return nil, fmt.Errorf("scanning %s document: %w", coll, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", coll, err)
	}
	return items, nil
}

// Get returns one document or model.ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, coll model.CollectionID, key string) (item model.ContentItem, err error) {
	defer observe("get", coll, time.Now(), &err)
	return getDocument(ctx, s.db, coll, key)
}

// Create stores a new document under a freshly assigned key at the end
// of the collection.
func (s *SQLStore) Create(ctx context.Context, coll model.CollectionID, fields model.Fields) (item model.ContentItem, err error) {
	defer observe("create", coll, time.Now(), &err)

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		item, err = insertDocument(ctx, tx, coll, uuid.NewString(), fields, s.now())
		return err
	})
	if err != nil {
		return model.ContentItem{}, writeError("creating", coll, err)
	}
	return item, nil
}

// Put creates or replaces the document stored under key. A replaced
// document keeps its position and creation time.
func (s *SQLStore) Put(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (item model.ContentItem, err error) {
	defer observe("put", coll, time.Now(), &err)

	if key == "" {
		return model.ContentItem{}, writeError("putting", coll, errors.New("empty key"))
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := getDocument(ctx, tx, coll, key)
		switch {
		case errors.Is(err, model.ErrNotFound):
			item, err = insertDocument(ctx, tx, coll, key, fields, s.now())
			return err
		case err != nil:
			return err
		}
		item, err = updateDocument(ctx, tx, existing, fields, s.now())
		return err
	})
	if err != nil {
		return model.ContentItem{}, writeError("putting", coll, err)
	}
	return item, nil
}

// Update replaces the fields of an existing document.
func (s *SQLStore) Update(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (item model.ContentItem, err error) {
	defer observe("update", coll, time.Now(), &err)

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		existing, err := getDocument(ctx, tx, coll, key)
		if err != nil {
			return err
		}
		item, err = updateDocument(ctx, tx, existing, fields, s.now())
		return err
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.ContentItem{}, err
	}
	if err != nil {
		return model.ContentItem{}, writeError("updating", coll, err)
	}
	return item, nil
}

// Delete removes a document. Deleting a missing key is a no-op.
func (s *SQLStore) Delete(ctx context.Context, coll model.CollectionID, key string) (err error) {
	defer observe("delete", coll, time.Now(), &err)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND doc_key = ?`, string(coll), key); err != nil {
		return writeError("deleting", coll, err)
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *SQLStore) Count(ctx context.Context, coll model.CollectionID) (n int, err error) {
	defer observe("count", coll, time.Now(), &err)

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, string(coll)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", coll, err)
	}
	return n, nil
}

// inTx runs fn inside a transaction, committing on success.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getDocument(ctx context.Context, q queryer, coll model.CollectionID, key string) (model.ContentItem, error) {
	row := q.QueryRowContext(ctx,
		selectDocument+` WHERE collection = ? AND doc_key = ?`, string(coll), key)
	item, err := scanDocument(row, coll)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentItem{}, fmt.Errorf("%s/%s: %w", coll, key, model.ErrNotFound)
	}
	if err != nil {
		return model.ContentItem{}, fmt.Errorf("getting %s/%s: %w", coll, key, err)
	}
	return item, nil
}

func insertDocument(ctx context.Context, q queryer, coll model.CollectionID, key string, fields model.Fields, now time.Time) (model.ContentItem, error) {
	data, err := encodeFields(fields)
	if err != nil {
		return model.ContentItem{}, err
	}

	var position int
	if err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM documents WHERE collection = ?`,
		string(coll)).Scan(&position); err != nil {
		return model.ContentItem{}, fmt.Errorf("computing position: %w", err)
	}

	if _, err := q.ExecContext(ctx,
		`INSERT INTO documents (collection, doc_key, data, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(coll), key, data, position, now, now); err != nil {
		return model.ContentItem{}, fmt.Errorf("inserting document: %w", err)
	}

	return model.ContentItem{
		Key:        key,
		Collection: coll,
		Fields:     fields.Clone(),
		Position:   position,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func updateDocument(ctx context.Context, q queryer, existing model.ContentItem, fields model.Fields, now time.Time) (model.ContentItem, error) {
	data, err := encodeFields(fields)
	if err != nil {
		return model.ContentItem{}, err
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND doc_key = ?`,
		data, now, string(existing.Collection), existing.Key); err != nil {
		return model.ContentItem{}, fmt.Errorf("updating document: %w", err)
	}

	existing.Fields = fields.Clone()
	existing.UpdatedAt = now
	return existing, nil
}

func scanDocument(row rowScanner, coll model.CollectionID) (model.ContentItem, error) {
	var (
		item model.ContentItem
		data string
	)
	if err := row.Scan(&item.Key, &data, &item.Position, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return model.ContentItem{}, err
	}
	fields := model.Fields{}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return model.ContentItem{}, fmt.Errorf("decoding fields of %s: %w", item.Key, err)
	}
	item.Collection = coll
	item.Fields = fields
	return item, nil
}

func encodeFields(fields model.Fields) (string, error) {
	if fields == nil {
		fields = model.Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding fields: %w", err)
	}
	return string(data), nil
}

// writeError marks err as a rejected write while keeping the cause.
func writeError(verb string, coll model.CollectionID, err error) error {
	return fmt.Errorf("%s %s document: %w: %w", verb, coll, model.ErrRemoteWrite, err)
}

func observe(op string, coll model.CollectionID, started time.Time, errp *error) {
	var err error
	if errp != nil && !errors.Is(*errp, model.ErrNotFound) {
		err = *errp
	}
	metrics.ObserveStoreOp(op, string(coll), started, err)
}

var _ DocumentStore = (*SQLStore)(nil)
