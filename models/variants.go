package models

type (
	// Variant is one decoded record from the source VCF.
	// The raw textual row is kept for filter-expression evaluation
	// and is never serialized outward.
	Variant struct {
		Chromosome string                 `json:"chromosome"`
		Position   uint64                 `json:"position"`
		Id         string                 `json:"id"`
		Reference  string                 `json:"reference"`
		Alternate  []string               `json:"alternate"`
		Quality    *float64               `json:"quality"`
		Filter     []string               `json:"filter"`
		Info       map[string]interface{} `json:"info"`
		RawRow     string                 `json:"-"`
	}

	// Location is one storage coordinate of an identifier.
	Location struct {
		Chromosome string
		Position   uint64
	}
)

// IntervalEnd returns the last reference base covered by the record,
// i.e. Position for a SNP and Position+len(REF)-1 for longer alleles.
func (v *Variant) IntervalEnd() uint64 {
	if len(v.Reference) <= 1 {
		return v.Position
	}
	return v.Position + uint64(len(v.Reference)) - 1
}
