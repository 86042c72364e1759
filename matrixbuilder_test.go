package vcfmat

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func buildFromString(t *testing.T, contents string, mb MatrixBuilder) (*GenotypeMatrix, []VariantKey, *ValidationReport) {
	t.Helper()

	v, err := Open(writeTempVCF(t, "stream.vcf", contents))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	matrix, keys, report, err := mb.Build(v)
	if err != nil {
		t.Fatal(err)
	}

	return matrix, keys, report
}

func TestBuildEndToEnd(t *testing.T) {
	contents := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"1 200 rs2 A C . LowQual . 0/0 0/1 1/1\n" +
		"1 300 rs3 A N . PASS . 0/0 0/1 1/1\n"

	mb := MatrixBuilder{Stride: 1, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	matrix, keys, report := buildFromString(t, contents, mb)

	nSamples, nVariants := matrix.Dims()
	if nSamples != 3 || nVariants != 1 {
		t.Fatalf("Got shape (%d, %d), expected (3, 1)", nSamples, nVariants)
	}

	want := []Genotype{HomRef, Het, HomAlt}
	for i := range want {
		if matrix.At(i, 0) != want[i] {
			t.Errorf("Row %d is %s, expected %s", i, matrix.At(i, 0), want[i])
		}
	}

	if len(keys) != 1 {
		t.Fatalf("Got %d keys, expected 1", len(keys))
	}
	if keys[0] != (VariantKey{Chromosome: "1", Position: 100, ID: "rs1"}) {
		t.Errorf("Unexpected key %+v", keys[0])
	}

	if report.Counts[SkipFilter] != 1 {
		t.Errorf("Got %d filter-rejected, expected 1", report.Counts[SkipFilter])
	}
	if report.Counts[SkipNonACGT] != 1 {
		t.Errorf("Got %d non-ACGT, expected 1", report.Counts[SkipNonACGT])
	}
	if report.TotalProcessed != 3 || report.TotalRetained != 1 {
		t.Errorf("Got processed %d retained %d, expected 3 and 1", report.TotalProcessed, report.TotalRetained)
	}
}

func TestBuildMatrixShapeInvariant(t *testing.T) {
	contents := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"2 200 rs2 G T . PASS . 1/1 ./. 0/0\n" +
		"3 300 rs3 C A . PASS . 0|1 1|1 0|0\n"

	mb := MatrixBuilder{Stride: 1, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	matrix, keys, report := buildFromString(t, contents, mb)

	nSamples, nVariants := matrix.Dims()
	if nSamples != 3 {
		t.Errorf("Got %d rows, expected the 3 header samples", nSamples)
	}
	if nVariants != report.TotalRetained || nVariants != len(keys) {
		t.Errorf("Got %d columns, %d keys, %d retained; all should agree", nVariants, len(keys), report.TotalRetained)
	}

	row := matrix.SampleRow(1)
	if len(row) != nVariants {
		t.Errorf("Got sample row of length %d, expected %d", len(row), nVariants)
	}
	if row[0] != Het || row[1] != Missing || row[2] != HomAlt {
		t.Errorf("Unexpected sample row %v", row)
	}
}

func TestBuildStride(t *testing.T) {
	contents := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"1 200 rs2 A C . PASS . 0/0 0/1 1/1\n" +
		"1 300 rs3 A C . PASS . 0/0 0/1 1/1\n" +
		"1 400 rs4 A C . PASS . 0/0 0/1 1/1\n" +
		"1 500 rs5 A C . PASS . 0/0 0/1 1/1\n" +
		"1 600 rs6 A C . PASS . 0/0 0/1 1/1\n"

	mb := MatrixBuilder{Stride: 2, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	_, keys, report := buildFromString(t, contents, mb)

	// Lines 0, 2, and 4 of the data section are tested; the rest are
	// never tokenized.
	if len(keys) != 3 {
		t.Fatalf("Got %d keys, expected 3", len(keys))
	}
	wantIDs := []string{"rs1", "rs3", "rs5"}
	for i := range wantIDs {
		if keys[i].ID != wantIDs[i] {
			t.Errorf("Key %d is %s, expected %s", i, keys[i].ID, wantIDs[i])
		}
	}
	if report.TotalProcessed != 3 {
		t.Errorf("Got %d processed, expected 3", report.TotalProcessed)
	}
}

func TestBuildStrideDeterminism(t *testing.T) {
	contents := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"1 200 rs2 G T . PASS . 1/1 0/0 ./.\n" +
		"1 300 rs3 C G . PASS . 0/1 0/1 0/1\n" +
		"1 400 rs4 T A . PASS . 0/0 1/1 0/0\n" +
		"1 500 rs5 A G . PASS . ./. ./. 1/1\n"

	mb := MatrixBuilder{Stride: 2, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}

	m1, k1, _ := buildFromString(t, contents, mb)
	m2, k2, _ := buildFromString(t, contents, mb)

	if len(k1) != len(k2) {
		t.Fatalf("Key counts differ: %d vs %d", len(k1), len(k2))
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			t.Errorf("Key %d differs: %+v vs %+v", i, k1[i], k2[i])
		}
	}

	nSamples, nVariants := m1.Dims()
	for i := 0; i < nSamples; i++ {
		for j := 0; j < nVariants; j++ {
			if m1.At(i, j) != m2.At(i, j) {
				t.Errorf("Matrix cell (%d, %d) differs", i, j)
			}
		}
	}
}

func TestBuildColumnOrderIsStreamOrder(t *testing.T) {
	// Positions deliberately out of genomic order; column order must
	// follow the stream.
	contents := testHeader +
		"2 900 rs2 A C . PASS . 0/0 0/1 1/1\n" +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n"

	mb := MatrixBuilder{Stride: 1, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	_, keys, _ := buildFromString(t, contents, mb)

	if keys[0].ID != "rs2" || keys[1].ID != "rs1" {
		t.Errorf("Got key order %s, %s; expected stream order rs2, rs1", keys[0].ID, keys[1].ID)
	}
}

// writeTruncatedGzipVCF writes a gzip callset whose final record and
// trailer are cut off mid-block, so decompression fails partway
// through the stream. Everything before the flush point stays
// decodable.
func writeTruncatedGzipVCF(t *testing.T, decodable, cut string) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(decodable)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Flush(); err != nil {
		t.Fatal(err)
	}
	flushed := buf.Len()
	if _, err := gz.Write([]byte(cut)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	truncated := buf.Bytes()[:flushed+4]
	path := filepath.Join(t.TempDir(), "truncated.vcf.gz")
	if err := os.WriteFile(path, truncated, 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestBuildStreamFailureIsFatal(t *testing.T) {
	decodable := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"1 200 rs2 G T . PASS . 1/1 0/0 ./.\n"
	cut := "1 300 rs3 C G . PASS . 0/1 0/1 0/1\n"
	path := writeTruncatedGzipVCF(t, decodable, cut)

	v, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	mb := MatrixBuilder{Stride: 1, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	matrix, keys, report, err := mb.Build(v)
	if err == nil {
		t.Fatal("expected a stream error from the truncated input")
	}
	if matrix != nil || keys != nil || report != nil {
		t.Error("partial results returned without AllowPartial")
	}
}

func TestBuildStreamFailureAllowPartial(t *testing.T) {
	decodable := testHeader +
		"1 100 rs1 A C . PASS . 0/0 0/1 1/1\n" +
		"1 200 rs2 G T . PASS . 1/1 0/0 ./.\n"
	cut := "1 300 rs3 C G . PASS . 0/1 0/1 0/1\n"
	path := writeTruncatedGzipVCF(t, decodable, cut)

	v, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()

	mb := MatrixBuilder{
		Stride:       1,
		Opts:         ParseOptions{AutosomeOnly: true, ACGTOnly: true},
		AllowPartial: true,
	}
	matrix, keys, report, err := mb.Build(v)
	if err == nil {
		t.Fatal("expected the stream error alongside the partial results")
	}
	if matrix == nil || report == nil {
		t.Fatal("expected partial results with AllowPartial")
	}

	nSamples, nVariants := matrix.Dims()
	if nSamples != 3 || nVariants != 2 {
		t.Errorf("Got shape (%d, %d), expected (3, 2)", nSamples, nVariants)
	}
	if len(keys) != 2 || keys[0].ID != "rs1" || keys[1].ID != "rs2" {
		t.Errorf("Got keys %+v, expected rs1 and rs2", keys)
	}
	if report.TotalRetained != 2 {
		t.Errorf("Got %d retained, expected 2", report.TotalRetained)
	}
}

func TestBuildBadTokenDiscardsWholeRecord(t *testing.T) {
	contents := testHeader +
		"1 100 rs1 A C . PASS . 0/0 2/0 1/1\n" +
		"1 200 rs2 A C . PASS . 0/0 0/1 1/1\n"

	mb := MatrixBuilder{Stride: 1, Opts: ParseOptions{AutosomeOnly: true, ACGTOnly: true}}
	matrix, keys, report := buildFromString(t, contents, mb)

	_, nVariants := matrix.Dims()
	if nVariants != 1 || len(keys) != 1 || keys[0].ID != "rs2" {
		t.Errorf("Expected only rs2 retained; got %d columns, keys %+v", nVariants, keys)
	}
	if report.Counts[SkipBadToken] != 1 {
		t.Errorf("Got %d bad-token skips, expected 1", report.Counts[SkipBadToken])
	}
	if len(report.Diagnostics) == 0 || report.Diagnostics[0] != "unknown genotype token: 2/0" {
		t.Errorf("Unexpected diagnostics %v", report.Diagnostics)
	}
}
