package vcfmat

import (
	"fmt"
	"strconv"
	"strings"
)

// Positional columns of a VCF data line. FORMAT is optional on data
// lines; the genotype tokens are always the trailing NSamples fields.
const (
	colChromosome = 0
	colPosition   = 1
	colID         = 2
	colRef        = 3
	colAlt        = 4
	colQuality    = 5
	colFilter     = 6
	colInfo       = 7
)

// minFixedFields counts the positional columns through INFO.
const minFixedFields = 8

const (
	headerLinePrefix = "#"
	metaLinePrefix   = "##"
)

// SkipReason is the category under which a rejected data line is
// counted by the ValidationReport.
type SkipReason string

const (
	SkipMalformed   SkipReason = "malformed: too few fields"
	SkipNonAutosome SkipReason = "non-autosome"
	SkipNonACGT     SkipReason = "non-ACGT allele"
	SkipFilter      SkipReason = "filter-rejected"
	SkipBadToken    SkipReason = "unknown genotype token"
)

// Record is one fully decoded variant line.
type Record struct {
	Chromosome string
	Position   uint32
	ID         string
	Ref        Allele
	Alt        Allele
	Filter     string
	Genotypes  []Genotype
}

// Key returns the identifying triple for this record.
func (r *Record) Key() VariantKey {
	return VariantKey{Chromosome: r.Chromosome, Position: r.Position, ID: r.ID}
}

// VariantKey identifies one retained variant within the stream.
type VariantKey struct {
	Chromosome string
	Position   uint32
	ID         string
}

// OutcomeKind discriminates the three possible results of parsing one
// raw line.
type OutcomeKind int

const (
	KindHeaderLine OutcomeKind = iota
	KindSkipped
	KindValidRecord
)

func (k OutcomeKind) String() string {
	switch k {
	case KindHeaderLine:
		return "HeaderLine"
	case KindSkipped:
		return "Skipped"
	case KindValidRecord:
		return "ValidRecord"

	default:
		return "Illegal selection"
	}
}

// ParseOutcome is the tagged result of ParseLine. Reason and Detail are
// set only when Kind is KindSkipped; Record is set only when Kind is
// KindValidRecord. No other combination is ever produced.
type ParseOutcome struct {
	Kind   OutcomeKind
	Reason SkipReason
	Detail string
	Record *Record
}

// ParseOptions holds the two record-level policy flags.
type ParseOptions struct {
	// AutosomeOnly rejects records whose chromosome is not an integer
	// in 1..22.
	AutosomeOnly bool

	// ACGTOnly rejects records whose ref or alt allele is not a single
	// A, C, G, or T.
	ACGTOnly bool
}

func skipped(reason SkipReason, detail string) ParseOutcome {
	return ParseOutcome{Kind: KindSkipped, Reason: reason, Detail: detail}
}

// ParseLine decodes one raw text line into a header marker, a
// classified skip, or a valid record carrying exactly nSamples
// genotype codes. It is a pure function: the returned genotype slice
// is freshly allocated on every call. The first failing validation
// rule wins and is the reported reason.
func ParseLine(line string, nSamples int, opts ParseOptions) ParseOutcome {
	if strings.HasPrefix(line, headerLinePrefix) {
		return ParseOutcome{Kind: KindHeaderLine}
	}

	fields := strings.Fields(line)
	if len(fields) < minFixedFields+nSamples {
		return skipped(SkipMalformed, fmt.Sprintf("malformed: %d fields, need at least %d for %d samples", len(fields), minFixedFields+nSamples, nSamples))
	}

	if opts.AutosomeOnly {
		if _, ok := AutosomeNumber(fields[colChromosome]); !ok {
			return skipped(SkipNonAutosome, "non-autosome chromosome: "+fields[colChromosome])
		}
	}

	ref, alt := Allele(fields[colRef]), Allele(fields[colAlt])
	if opts.ACGTOnly {
		if !ref.IsSingleACGT() || !alt.IsSingleACGT() {
			return skipped(SkipNonACGT, fmt.Sprintf("non-ACGT allele: ref %q alt %q", ref, alt))
		}
	}

	if filter := fields[colFilter]; filter != "PASS" && filter != "." {
		return skipped(SkipFilter, filter)
	}

	pos64, err := strconv.ParseUint(fields[colPosition], 10, 32)
	if err != nil {
		return skipped(SkipMalformed, "malformed: unparseable position "+fields[colPosition])
	}

	genotypes := make([]Genotype, nSamples)
	for i, tok := range fields[len(fields)-nSamples:] {
		g, ok := decodeGenotypeToken(tok)
		if !ok {
			// One bad token discards the whole record, not just this
			// sample's entry.
			return skipped(SkipBadToken, "unknown genotype token: "+tok)
		}
		genotypes[i] = g
	}

	return ParseOutcome{
		Kind: KindValidRecord,
		Record: &Record{
			Chromosome: fields[colChromosome],
			Position:   uint32(pos64),
			ID:         fields[colID],
			Ref:        ref,
			Alt:        alt,
			Filter:     fields[colFilter],
			Genotypes:  genotypes,
		},
	}
}

// decodeGenotypeToken maps one two-allele genotype token to its code.
// Only the characters at positions 0 and 2 matter; position 1 is the
// phase separator, and whether it is "/" or "|" is ignored, as is any
// colon-delimited payload after the call itself.
func decodeGenotypeToken(tok string) (Genotype, bool) {
	if len(tok) < 3 {
		return HomRef, false
	}

	a, b := tok[0], tok[2]
	if a == '.' && b == '.' {
		return Missing, true
	}

	switch {
	case a == '0' && b == '0':
		return HomRef, true
	case a == '0' && b == '1', a == '1' && b == '0':
		return Het, true
	case a == '1' && b == '1':
		return HomAlt, true
	}

	return HomRef, false
}
