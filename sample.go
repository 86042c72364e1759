package vcfmat

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// MissingPopulation is the sentinel population code assigned to any
// header sample that never appears in the panel file.
const MissingPopulation = "missing"

// Sample pairs one header sample identifier with its population code.
// Population is MissingPopulation until a PopulationIndex assigns it.
type Sample struct {
	SampleID   string
	Population string
}

// ReadSamples returns the samples named on the header line, in matrix
// row order.
func ReadSamples(v *VCF) ([]Sample, error) {
	if v.NSamples == 0 {
		return nil, pfx.Err(fmt.Errorf("%s does not name any samples on its header line", v.FilePath))
	}

	samples := make([]Sample, 0, v.NSamples)
	for _, id := range v.SampleNames {
		samples = append(samples, Sample{SampleID: id, Population: MissingPopulation})
	}

	return samples, nil
}
