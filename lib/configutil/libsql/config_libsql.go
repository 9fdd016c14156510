package configlibsql

import (
	"database/sql"
	"fmt"
	devenv "itchscratch/dev/env"
	"os"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Struct struct {
	// either a path to a local sqlite file or a libsql:// (or https://) url
	// pointing at a remote libsql server
	File string `json:"file"`
}

func (config Struct) IsRemote() bool {
	return strings.HasPrefix(config.File, "libsql://") ||
		strings.HasPrefix(config.File, "https://") ||
		strings.HasPrefix(config.File, "http://")
}

// Exists reports whether a local database file is already present, remote
// databases always exist.
func (config Struct) Exists() bool {
	if config.IsRemote() {
		return true
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return false
	}
	_, err = os.Stat(dbpath)
	return err == nil
}

// Remove deletes a local database file, it is a no-op for remote databases.
func (config Struct) Remove() error {
	if config.IsRemote() {
		return nil
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return err
	}
	err = os.Remove(dbpath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}

	if config.IsRemote() {
		db, err := sql.Open("libsql", config.File)
		if err != nil {
			return nil, err
		}
		_, err = db.Exec(schema)
		if err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
