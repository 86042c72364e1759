package vcfmat

// DefaultMaxDiagnostics bounds how many verbatim diagnostic messages a
// ValidationReport retains. Only the earliest are kept, so a
// pervasively malformed file cannot grow the report without bound.
const DefaultMaxDiagnostics = 10

// ValidationReport accumulates the skip classifications emitted while
// streaming over a callset. Header lines are not counted as errors.
type ValidationReport struct {
	// Counts is keyed by skip category.
	Counts map[SkipReason]int

	// Diagnostics holds the first MaxDiagnostics skip messages
	// verbatim, in the order they were raised.
	Diagnostics []string

	// MaxDiagnostics is the retention bound for Diagnostics. The zero
	// value means DefaultMaxDiagnostics.
	MaxDiagnostics int

	// TotalProcessed counts the data lines actually tested (header
	// lines and lines passed over by the stride are excluded).
	TotalProcessed int

	// TotalRetained counts the records that made it into the matrix.
	TotalRetained int
}

func NewValidationReport() *ValidationReport {
	return &ValidationReport{
		Counts:         make(map[SkipReason]int),
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

// AddSkip records one rejected line under its category, retaining the
// verbatim detail while the diagnostic buffer has room.
func (r *ValidationReport) AddSkip(reason SkipReason, detail string) {
	r.Counts[reason]++

	max := r.MaxDiagnostics
	if max == 0 {
		max = DefaultMaxDiagnostics
	}
	if len(r.Diagnostics) < max {
		r.Diagnostics = append(r.Diagnostics, detail)
	}
}

// TotalSkipped sums the counts across every skip category.
func (r *ValidationReport) TotalSkipped() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}

	return n
}
