package vcfmat

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// GenotypeMatrix is a dense samples-by-variants matrix of genotype
// codes. Rows follow header sample order; columns follow the order in
// which variants were retained from the stream, which is physical file
// order, not genomic position order.
type GenotypeMatrix struct {
	NSamples  int
	NVariants int

	// data is row-major: sample i's codes occupy
	// data[i*NVariants : (i+1)*NVariants].
	data []Genotype
}

// At returns the code for one sample at one retained variant.
func (m *GenotypeMatrix) At(sample, variant int) Genotype {
	return m.data[sample*m.NVariants+variant]
}

// SampleRow returns one sample's codes across all retained variants.
// The returned slice aliases the matrix; callers must not modify it.
func (m *GenotypeMatrix) SampleRow(sample int) []Genotype {
	return m.data[sample*m.NVariants : (sample+1)*m.NVariants]
}

// Dims returns the matrix shape as (samples, variants).
func (m *GenotypeMatrix) Dims() (int, int) {
	return m.NSamples, m.NVariants
}

// stackAndTranspose materializes the matrix from the per-variant
// vectors that decoding naturally produces. Each input vector holds
// one variant's codes across all samples; downstream analysis needs
// the transpose, one row per sample across all variants.
func stackAndTranspose(nSamples int, variants [][]Genotype) (*GenotypeMatrix, error) {
	m := &GenotypeMatrix{
		NSamples:  nSamples,
		NVariants: len(variants),
		data:      make([]Genotype, nSamples*len(variants)),
	}

	for j, vec := range variants {
		if len(vec) != nSamples {
			return nil, pfx.Err(fmt.Errorf("variant column %d carries %d genotypes; expected %d", j, len(vec), nSamples))
		}
		for i, g := range vec {
			m.data[i*m.NVariants+j] = g
		}
	}

	return m, nil
}
