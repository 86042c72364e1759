package vcfmat

import (
	"github.com/carbocation/pfx"
)

// MatrixBuilder drives one streaming pass over an opened callset and
// materializes the dense genotype matrix.
//
// Stride is a systematic thinning, not a statistical sample: only
// every Nth physical line is tokenized at all, so the retained variant
// set is a fixed-step subsample of the file's line order and is not
// reproducible across files with different internal ordering. For a
// fixed file and fixed stride, two runs produce identical output.
type MatrixBuilder struct {
	// Stride tests only every Nth data line. Values below 1 are
	// treated as 1 (every line).
	Stride int

	// Opts carries the record-level policy flags.
	Opts ParseOptions

	// AllowPartial, when set, returns whatever was accumulated before
	// a stream-level read failure, alongside the error. Otherwise the
	// partial matrix is discarded.
	AllowPartial bool
}

// Build consumes the remainder of v's stream and returns the
// samples-by-variants matrix, the retained variant keys in order of
// appearance, and the validation report. Per-record failures are
// recovered locally and only counted; a read failure on the underlying
// stream is fatal.
func (mb *MatrixBuilder) Build(v *VCF) (*GenotypeMatrix, []VariantKey, *ValidationReport, error) {
	stride := mb.Stride
	if stride < 1 {
		stride = 1
	}

	report := NewValidationReport()
	var vectors [][]Genotype
	var keys []VariantKey

	for lineNum := 0; ; lineNum++ {
		line, ok := v.ReadLine()
		if !ok {
			break
		}
		if lineNum%stride != 0 {
			continue
		}

		outcome := ParseLine(line, v.NSamples, mb.Opts)
		switch outcome.Kind {
		case KindHeaderLine:
			// The header was consumed at Open; a stray marker line
			// mid-stream is a no-op, not an error.
		case KindSkipped:
			report.TotalProcessed++
			report.AddSkip(outcome.Reason, outcome.Detail)
		case KindValidRecord:
			report.TotalProcessed++
			report.TotalRetained++
			vectors = append(vectors, outcome.Record.Genotypes)
			keys = append(keys, outcome.Record.Key())
		}
	}

	if err := v.Err(); err != nil {
		if !mb.AllowPartial {
			return nil, nil, nil, pfx.Err(err)
		}

		m, merr := stackAndTranspose(v.NSamples, vectors)
		if merr != nil {
			return nil, nil, nil, merr
		}

		return m, keys, report, pfx.Err(err)
	}

	m, err := stackAndTranspose(v.NSamples, vectors)
	if err != nil {
		return nil, nil, nil, err
	}

	return m, keys, report, nil
}
