package bio

// TruncationProduct is an annotated proteolysis product. A nil bound is open:
// a nil Begin runs from the start and a nil End runs to the end.
type TruncationProduct struct {
	Begin *int
	End   *int
	Type  string // e.g. "chain", "signal peptide"
}

// NewTruncationProduct returns a closed product [begin, end].
func NewTruncationProduct(begin, end int, typ string) *TruncationProduct {
	return &TruncationProduct{Begin: &begin, End: &end, Type: typ}
}

// IsOpen reports whether either bound is missing.
func (t *TruncationProduct) IsOpen() bool {
	return t.Begin == nil || t.End == nil
}

// Bounds resolves open bounds against a sequence of length n.
func (t *TruncationProduct) Bounds(n int) (begin, end int) {
	begin, end = 1, n
	if t.Begin != nil {
		begin = *t.Begin
	}
	if t.End != nil {
		end = *t.End
	}
	return begin, end
}

// DisulfideBond links the residues at Begin and End.
type DisulfideBond struct {
	Begin       int
	End         int
	Description string
}

// SpliceSite is an annotated splice site range.
type SpliceSite struct {
	Begin       int
	End         int
	Description string
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
