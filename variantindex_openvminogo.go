//go:build !cgo

package vcfmat

// If cgo is not enabled, we will use the modernc.org/sqlite non-cgo
// sqlite driver. It is slower than the sqlite3 cgo driver.

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const whichSQLiteDriver = "sqlite"

func OpenVMI(path string) (*VMIIndex, error) {
	vmi := &VMIIndex{
		Metadata: &VMIMetadata{},
	}

	db, err := sqlx.Connect(whichSQLiteDriver, sqliteURI(path))
	if err != nil {
		return nil, err
	}
	vmi.DB = db

	// See https://www.rockyourcode.com/til-sqlite-foreign-key-support-with-go/
	// and https://twitter.com/frioux/status/1483235674228596739
	_, err = db.DB.Exec(`
	PRAGMA journal_mode = OFF;
	PRAGMA synchronous = OFF;
	PRAGMA auto_vacuum = NONE;
	`)
	if err != nil {
		return nil, fmt.Errorf("unable to set pragmas: %w", err)
	}

	// Not all index files have metadata; ignore any error
	_ = vmi.DB.Get(vmi.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return vmi, nil
}
