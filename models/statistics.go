package models

type (
	QualityStats struct {
		Min  float64 `json:"min"`
		Max  float64 `json:"max"`
		Mean float64 `json:"mean"`
	}

	VariantTypeStats struct {
		Snps       uint64 `json:"snps"`
		Insertions uint64 `json:"insertions"`
		Deletions  uint64 `json:"deletions"`
		Mnps       uint64 `json:"mnps"`
		Complex    uint64 `json:"complex"`
	}

	// VcfStatistics is a single cached snapshot of the whole file,
	// computed by one forward scan at load time.
	VcfStatistics struct {
		FileFormat            string            `json:"file_format"`
		ReferenceGenome       string            `json:"reference_genome"`
		ChromosomeCount       int               `json:"chromosome_count"`
		SampleCount           int               `json:"sample_count"`
		Chromosomes           []string          `json:"chromosomes"`
		TotalVariants         uint64            `json:"total_variants"`
		VariantsPerChromosome map[string]uint64 `json:"variants_per_chromosome"`
		UniqueIds             uint64            `json:"unique_ids"`
		MissingIds            uint64            `json:"missing_ids"`
		QualityStats          *QualityStats     `json:"quality_stats"`
		FilterCounts          map[string]uint64 `json:"filter_counts"`
		VariantTypes          VariantTypeStats  `json:"variant_types"`
	}
)
