package vcfmat

import (
	"strconv"
	"strings"
)

// AutosomeNumber takes the raw chromosome field and returns its
// autosome number, accepting the "1", "01", and "chr1" spellings. The
// second return is false for the sex chromosomes, the mitochondrial
// contig, and anything else outside 1..22.
func AutosomeNumber(chrom string) (int, bool) {
	c := chrom
	if strings.HasPrefix(c, "chr") || strings.HasPrefix(c, "CHR") {
		c = c[3:]
	}

	// Zero-padded spellings like "01" appear in older callsets.
	if len(c) == 2 && c[0] == '0' {
		c = c[1:]
	}

	n, err := strconv.Atoi(c)
	if err != nil {
		return 0, false
	}

	if n < 1 || n > 22 {
		return 0, false
	}

	return n, true
}
