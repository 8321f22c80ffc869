package models

type ReferenceGenomeSource string

const (
	GenomeSourceHeaderLine ReferenceGenomeSource = "header_line"
	GenomeSourceInferred   ReferenceGenomeSource = "inferred_from_contig_lengths"
	GenomeSourceUnknown    ReferenceGenomeSource = "unknown"
)

type (
	ReferenceGenomeInfo struct {
		Build  string                `json:"build"`
		Source ReferenceGenomeSource `json:"source"`
	}

	ContigInfo struct {
		Id     string  `json:"id"`
		Length *uint64 `json:"length,omitempty"`
	}

	VcfMetadata struct {
		FileFormat      string              `json:"file_format"`
		ReferenceGenome ReferenceGenomeInfo `json:"reference_genome"`
		Contigs         []ContigInfo        `json:"contigs"`
		Samples         []string            `json:"samples"`
	}
)
