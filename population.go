package vcfmat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// Sentinel first fields of non-data rows in the population description
// file.
const (
	descHeaderMarker = "Population Description"
	descTotalsMarker = "Total"
)

// panelHeaderMarker is the literal first field of the optional header
// row in the sample panel file.
const panelHeaderMarker = "sample"

// PopulationIndex joins the header's ordered sample list against the
// two metadata sources. Its maps are built once and are read-only to
// downstream consumers.
type PopulationIndex struct {
	// PopulationOf is total over the header samples: a sample missing
	// from the panel maps to MissingPopulation.
	PopulationOf map[string]string

	// NameOf and ContinentOf are keyed by population code.
	NameOf      map[string]string
	ContinentOf map[string]string

	// ContinentPopulations lists each continent's population codes in
	// description-file order. Continents preserves the continents'
	// own first-appearance order.
	ContinentPopulations map[string][]string
	Continents           []string

	// RowsOf maps population code to matrix row indices, in header
	// order. Samples without panel metadata appear only in
	// MissingRows, never in RowsOf.
	RowsOf      map[string][]int
	MissingRows []int

	NSamples int
}

// BuildPopulationIndex parses the sample panel and the population
// description sources and joins them against the ordered sample list
// extracted from the callset header.
func BuildPopulationIndex(sampleNames []string, panel, descriptions io.Reader) (*PopulationIndex, error) {
	idx := &PopulationIndex{
		PopulationOf:         make(map[string]string),
		NameOf:               make(map[string]string),
		ContinentOf:          make(map[string]string),
		ContinentPopulations: make(map[string][]string),
		RowsOf:               make(map[string][]int),
		NSamples:             len(sampleNames),
	}

	panelOf, err := parsePanel(panel)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if err := idx.parseDescriptions(descriptions); err != nil {
		return nil, pfx.Err(err)
	}

	for row, id := range sampleNames {
		pop, ok := panelOf[id]
		if !ok {
			idx.PopulationOf[id] = MissingPopulation
			idx.MissingRows = append(idx.MissingRows, row)
			continue
		}

		idx.PopulationOf[id] = pop
		idx.RowsOf[pop] = append(idx.RowsOf[pop], row)
	}

	return idx, nil
}

// parsePanel reads the whitespace-delimited sample-to-population
// mapping. An optional header row whose first field is the literal
// "sample" is skipped. On duplicate sample ids, the last occurrence
// wins.
func parsePanel(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		if fields[0] == panelHeaderMarker {
			continue
		}

		out[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// parseDescriptions reads the tab-delimited population description
// source: full name, population code, continent. Recognized
// header/footer sentinel rows and blank lines are skipped.
func (p *PopulationIndex) parseDescriptions(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if fields[0] == descHeaderMarker || fields[0] == descTotalsMarker {
			continue
		}
		if len(fields) < 3 {
			continue
		}

		name := strings.TrimSpace(fields[0])
		code := strings.TrimSpace(fields[1])
		continent := strings.TrimSpace(fields[2])
		if code == "" {
			continue
		}

		// On duplicate population codes the last occurrence wins, as
		// with duplicate samples in the panel. A code keeps its
		// original list position unless its continent changed.
		prev, dup := p.ContinentOf[code]
		p.NameOf[code] = name
		p.ContinentOf[code] = continent
		if dup {
			if prev == continent {
				continue
			}
			old := p.ContinentPopulations[prev]
			for i, c := range old {
				if c == code {
					p.ContinentPopulations[prev] = append(old[:i], old[i+1:]...)
					break
				}
			}
		}

		if _, seen := p.ContinentPopulations[continent]; !seen {
			p.Continents = append(p.Continents, continent)
		}
		p.ContinentPopulations[continent] = append(p.ContinentPopulations[continent], code)
	}

	return scanner.Err()
}

// Population returns the population code for a sample id, or
// MissingPopulation when the sample is unknown. Every default decision
// is made here, visibly, rather than inside the map.
func (p *PopulationIndex) Population(sampleID string) string {
	if pop, ok := p.PopulationOf[sampleID]; ok {
		return pop
	}

	return MissingPopulation
}

// Annotate fills in the Population field of each sample in place.
func (p *PopulationIndex) Annotate(samples []Sample) {
	for i := range samples {
		samples[i].Population = p.Population(samples[i].SampleID)
	}
}

// IndexedRows counts the rows present across the per-population index
// sets, excluding the missing bucket.
func (p *PopulationIndex) IndexedRows() int {
	n := 0
	for _, rows := range p.RowsOf {
		n += len(rows)
	}

	return n
}

// CheckComplete verifies the partition invariant: every matrix row is
// in exactly one population bucket or in the missing bucket.
func (p *PopulationIndex) CheckComplete() error {
	if got := p.IndexedRows() + len(p.MissingRows); got != p.NSamples {
		return pfx.Err(fmt.Errorf("population index covers %d rows; expected %d", got, p.NSamples))
	}

	seen := make(map[int]string)
	for pop, rows := range p.RowsOf {
		for _, row := range rows {
			if other, dup := seen[row]; dup {
				return pfx.Err(fmt.Errorf("row %d indexed under both %s and %s", row, other, pop))
			}
			seen[row] = pop
		}
	}

	return nil
}
