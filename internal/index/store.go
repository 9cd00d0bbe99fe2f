package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store is the docset search index (table searchIndex(id, name, type, path)).
// It is not safe for concurrent use; one run owns it exclusively.
type Store struct {
	db       *sql.DB
	findStmt *sql.Stmt
}

// Open opens the index database at path. The file must already exist.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, storageErr("open", err)
	}

	// Ties on name are broken by the lexicographically smallest type.
	stmt, err := db.Prepare(`SELECT path FROM searchIndex WHERE name = ? ORDER BY type LIMIT 1`)
	if err != nil {
		_ = db.Close()
		return nil, storageErr("open", fmt.Errorf("prepare lookup: %w", err))
	}

	return &Store{db: db, findStmt: stmt}, nil
}

// Count returns the number of entries in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM searchIndex`).Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// Scan streams every entry to fn exactly once. An error returned by fn
// stops the scan and is returned as is.
func (s *Store) Scan(ctx context.Context, fn func(Entry) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, COALESCE(name, ''), COALESCE(type, ''), COALESCE(path, '') FROM searchIndex`)
	if err != nil {
		return storageErr("scan", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Path); err != nil {
			return storageErr("scan", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return storageErr("scan", rows.Err())
}

// FindBestByName returns the path of the entry named name with the
// smallest type, or false when no entry has that name.
func (s *Store) FindBestByName(ctx context.Context, name string) (string, bool, error) {
	var path sql.NullString
	err := s.findStmt.QueryRowContext(ctx, name).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("lookup "+name, err)
	}
	return path.String, true, nil
}

// DeleteByLanguageMarker removes every entry whose path carries the
// <dash_entry_language=marker> tag and reports how many were removed.
func (s *Store) DeleteByLanguageMarker(ctx context.Context, marker string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searchIndex WHERE path LIKE ?`, "%<dash_entry_language="+marker+">%")
	if err != nil {
		return 0, storageErr("delete language "+marker, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("delete language "+marker, err)
	}
	return n, nil
}

// DeleteBatch removes all listed entries in a single transaction. progress,
// if set, is called after each deletion.
func (s *Store) DeleteBatch(ctx context.Context, ids []int64, progress func(done, total int)) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("delete batch", fmt.Errorf("begin tx: %w", err))
	}
	stmt, err := tx.PrepareContext(ctx, `DELETE FROM searchIndex WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return storageErr("delete batch", fmt.Errorf("prepare delete: %w", err))
	}

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return storageErr("delete batch", fmt.Errorf("delete %d: %w", id, err))
		}
		if progress != nil {
			progress(i+1, len(ids))
		}
	}

	_ = stmt.Close()
	if err := tx.Commit(); err != nil {
		return storageErr("delete batch", fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Compact reclaims the space freed by deletions.
func (s *Store) Compact(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `VACUUM`)
	return storageErr("compact", err)
}

func (s *Store) Close() error {
	_ = s.findStmt.Close()
	return storageErr("close", s.db.Close())
}
