// Package database sets up/opens the program database.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"ytdl/internal/domain/consts"
	logging "ytdl/internal/utils/logging"

	// Package sqlite3 provides interface to SQLite3 databases.
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"
)

// Database holds the attempt-history database handle.
type Database struct {
	DB *sql.DB
}

// InitDB opens (creating if needed) the history database at path.
func InitDB(path string) (d *Database, err error) {
	if err := os.MkdirAll(filepath.Dir(path), consts.PermsHomeProgDir); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	d = new(Database)
	d.DB, err = sql.Open(dbDriver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at path %q: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = d.DB.Close()
		}
	}()

	// Enable Write-Ahead Logging so "ytdl serve" can read while a session writes
	if _, err := d.DB.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Allow SQLite to wait for locks (in milliseconds)
	if _, err := d.DB.Exec(fmt.Sprintf(`PRAGMA busy_timeout = %d;`, consts.DatabaseTimeout.Milliseconds())); err != nil {
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}

	// Slightly reduce fsync frequency for faster writes
	if _, err := d.DB.Exec(`PRAGMA synchronous = NORMAL;`); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if err := d.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close()
}

// initTables initializes the SQL tables.
func (d *Database) initTables() (err error) {
	tx, err := d.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for table creation: %v", rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("transaction rollback failed after original error %v: %v", err, rbErr)
			}
		}
	}()

	if err = initAttemptsTable(tx); err != nil {
		return err
	}
	return tx.Commit()
}
