package vcfmat

import (
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carbocation/pfx"
)

// VMIIndex wraps the SQLite sidecar index (.vmi) that records which
// variants a matrix-building pass retained, and at which column.
type VMIIndex struct {
	DB       *sqlx.DB
	Metadata *VMIMetadata
}

func (v *VMIIndex) Close() error {
	return v.DB.Close()
}

// IndexedVariant conforms to the rows of the sidecar's "Variant"
// table, and can be easily parsed with sqlx.
type IndexedVariant struct {
	Chromosome   string `db:"chromosome"`
	Position     uint32 `db:"position"`
	VariantID    string `db:"variant_id"`
	MatrixColumn int    `db:"matrix_column"`
}

// VMIMetadata conforms to the rows of the sidecar's "Metadata" table.
type VMIMetadata struct {
	Filename          string `db:"filename"`
	Stride            int    `db:"stride"`
	TotalProcessed    int    `db:"total_processed"`
	TotalRetained     int    `db:"total_retained"`
	IndexCreationTime Time   `db:"index_creation_time"`
}

const vmiSchema = `
CREATE TABLE IF NOT EXISTS Variant (
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	variant_id TEXT NOT NULL,
	matrix_column INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS Metadata (
	filename TEXT,
	stride INTEGER,
	total_processed INTEGER,
	total_retained INTEGER,
	index_creation_time INTEGER
);
`

// sqliteURI normalizes a path into a URI filename. URI filenames have
// to begin with 'file:'; see https://www.sqlite.org/c3ref/open.html .
func sqliteURI(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	return path
}

// WriteVMI persists the retained variant keys, in column order, plus
// the pass's stride and counts, to a sidecar index at path. The
// sidecar is a separate artifact; the variant file itself is never
// rewritten.
func WriteVMI(path, sourcePath string, stride int, keys []VariantKey, report *ValidationReport) error {
	db, err := sqlx.Connect(whichSQLiteDriver, sqliteURI(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	if _, err := db.Exec(vmiSchema); err != nil {
		return pfx.Err(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}

	stmt, err := tx.Prepare("INSERT INTO Variant (chromosome, position, variant_id, matrix_column) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return pfx.Err(err)
	}
	for col, key := range keys {
		if _, err := stmt.Exec(key.Chromosome, key.Position, key.ID, col); err != nil {
			tx.Rollback()
			return pfx.Err(err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO Metadata (filename, stride, total_processed, total_retained, index_creation_time) VALUES (?, ?, ?, ?, ?)",
		sourcePath, stride, report.TotalProcessed, report.TotalRetained, time.Now().Unix(),
	); err != nil {
		tx.Rollback()
		return pfx.Err(err)
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
