package testsupport

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a shared-cache in-memory sqlite database. The name
// scopes the database within the process, so tests that need isolation pass
// distinct names.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	if name == "" {
		name = "testsupport"
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	return sql.Open("sqlite3", dsn)
}
