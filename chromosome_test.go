package vcfmat

import "testing"

func TestAutosomeNumber(t *testing.T) {
	accepted := map[string]int{
		"1":     1,
		"01":    1,
		"chr1":  1,
		"chr22": 22,
		"09":    9,
		"22":    22,
	}
	for in, want := range accepted {
		got, ok := AutosomeNumber(in)
		if !ok {
			t.Errorf("%q: unexpectedly rejected", in)
			continue
		}
		if got != want {
			t.Errorf("%q: got %d, expected %d", in, got, want)
		}
	}

	rejected := []string{"X", "Y", "MT", "chrX", "0", "23", "0X", ""}
	for _, in := range rejected {
		if _, ok := AutosomeNumber(in); ok {
			t.Errorf("%q: expected rejection", in)
		}
	}
}
