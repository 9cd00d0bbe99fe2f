package index

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// openDB opens an existing docset index. The journal mode is left alone:
// the bundle is read by Dash afterwards and must stay a plain database file.
func openDB(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat index: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// One connection for the scan cursor, one for lookups issued while
	// the scan is still open.
	db.SetMaxOpenConns(2)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping index: %w", err)
	}
	return db, nil
}
