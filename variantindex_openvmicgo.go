//go:build cgo

package vcfmat

// If cgo is enabled, we will use the mattn cgo sqlite3 driver. It is
// faster than the modernc sqlite driver.

import (
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"

func OpenVMI(path string) (*VMIIndex, error) {
	vmi := &VMIIndex{
		Metadata: &VMIMetadata{},
	}

	db, err := sqlx.Connect(whichSQLiteDriver, sqliteURI(path))
	if err != nil {
		return nil, err
	}
	vmi.DB = db

	// Not all index files have metadata; ignore any error
	_ = vmi.DB.Get(vmi.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return vmi, nil
}
