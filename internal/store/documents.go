package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when a document key has never been written.
var ErrNotFound = errors.New("document not found")

// SQLiteDocuments stores whole documents by key in the documents table.
type SQLiteDocuments struct {
	db  *sql.DB
	now func() time.Time
}

func (d *SQLiteDocuments) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (d *SQLiteDocuments) Put(ctx context.Context, key string, value []byte) error {
	query, args := builder().
		Insert(documentsTable).
		Columns("key", "value", "updated_at").
		Values(key, value, d.now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()

	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing key is not an error.
func (d *SQLiteDocuments) Delete(ctx context.Context, key string) error {
	query, args := builder().
		Delete(documentsTable).
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
