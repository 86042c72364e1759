package vcfmat

// Genotype is the numeric code for one sample's diploid call at one
// variant site.
type Genotype int8

const (
	Missing Genotype = -1 + iota
	HomRef
	Het
	HomAlt
)

func (g Genotype) String() string {
	switch g {
	case HomRef:
		return "HomRef"
	case Het:
		return "Het"
	case HomAlt:
		return "HomAlt"
	case Missing:
		return "Missing"

	default:
		return "Illegal selection"
	}
}

// Allele represents a single nucleotide base.
type Allele string

func (a Allele) String() string {
	return string(a)
}

// IsSingleACGT reports whether the allele is exactly one of the four
// canonical bases.
func (a Allele) IsSingleACGT() bool {
	switch a {
	case "A", "C", "G", "T":
		return true
	}

	return false
}
