package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sqlCollection stores every record kind in one "records" table as a JSON
// body keyed by (kind, id); position keeps insertion order.
type sqlCollection[T any] struct {
	db     *sql.DB
	driver string
	kind   string
}

func NewSQLCollection[T any](db *sql.DB, driver, kind string) Collection[T] {
	return &sqlCollection[T]{db: db, driver: driver, kind: kind}
}

func (c *sqlCollection[T]) List(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx, c.q(`SELECT body FROM records WHERE kind=? ORDER BY position ASC`), c.kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []T
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			return nil, fmt.Errorf("decode %s record: %w", c.kind, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (c *sqlCollection[T]) Get(ctx context.Context, id string) (*T, error) {
	var body string
	err := c.db.QueryRowContext(ctx, c.q(`SELECT body FROM records WHERE kind=? AND id=?`), c.kind, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var item T
	if err := json.Unmarshal([]byte(body), &item); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c.kind, err)
	}
	return &item, nil
}

func (c *sqlCollection[T]) Insert(ctx context.Context, id string, item T) error {
	body, err := json.Marshal(item)
	if err != nil {
		return err
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	var exists int
	if err := tx.QueryRowContext(ctx, c.q(`SELECT COUNT(1) FROM records WHERE kind=? AND id=?`), c.kind, id).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return ErrConflict
	}
	var last int64
	if err := tx.QueryRowContext(ctx, c.q(`SELECT COALESCE(MAX(position), 0) FROM records WHERE kind=?`), c.kind).Scan(&last); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, c.q(`INSERT INTO records(kind, id, position, body, updated_at) VALUES(?,?,?,?,?)`),
		c.kind, id, last+1, string(body), time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func (c *sqlCollection[T]) Replace(ctx context.Context, id string, item T) error {
	body, err := json.Marshal(item)
	if err != nil {
		return err
	}
	res, err := c.db.ExecContext(ctx, c.q(`UPDATE records SET body=?, updated_at=? WHERE kind=? AND id=?`),
		string(body), time.Now().UTC(), c.kind, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *sqlCollection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, c.q(`DELETE FROM records WHERE kind=? AND id=?`), c.kind, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *sqlCollection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, c.q(`SELECT COUNT(1) FROM records WHERE kind=?`), c.kind).Scan(&n)
	return n, err
}

func (c *sqlCollection[T]) q(query string) string {
	return rebind(c.driver, query)
}

// rebind rewrites ? placeholders to $n for postgres.
func rebind(driver, query string) string {
	if driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
