package dbopen_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/jobfill/dbopen"
)

func TestOpenMemoryPragmas(t *testing.T) {
	db := dbopen.OpenMemory(t)

	var fk, sync, busy int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("PRAGMA synchronous").Scan(&sync); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatal(err)
	}
	if fk != 1 || sync != 1 || busy != 10_000 {
		t.Errorf("pragmas: got fk=%d sync=%d busy=%d", fk, sync, busy)
	}
}

func TestOpenFileWithSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "x.db")
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatal(err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode: got %q, want wal", mode)
	}
	if _, err := db.Exec(`INSERT INTO kv VALUES ('a', 'b')`); err != nil {
		t.Errorf("schema not applied: %v", err)
	}
}

func TestRunTxRollback(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(`CREATE TABLE kv (k TEXT PRIMARY KEY)`))
	boom := errors.New("boom")
	err := dbopen.RunTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO kv VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	var n int
	db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n)
	if n != 0 {
		t.Errorf("rows after rollback: got %d, want 0", n)
	}
}

func TestIsBusy(t *testing.T) {
	if !dbopen.IsBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Error("locked error not detected")
	}
	if dbopen.IsBusy(nil) || dbopen.IsBusy(errors.New("no such table")) {
		t.Error("false positive")
	}
}
