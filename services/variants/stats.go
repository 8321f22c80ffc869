package variantsService

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"locus/api/models"
	"locus/api/repositories/vcf"
	"locus/api/utils"
)

// computeStatistics derives the full snapshot in one pass over the
// records. Quality aggregates only cover records with a non-missing
// QUAL column.
func computeStatistics(source recordSource, header *vcf.Header) (*models.VcfStatistics, error) {
	statistics := &models.VcfStatistics{
		FileFormat:            header.FileFormat,
		ReferenceGenome:       formatReferenceGenome(extractReferenceGenome(header)),
		SampleCount:           len(header.Samples),
		VariantsPerChromosome: map[string]uint64{},
		FilterCounts:          map[string]uint64{},
	}

	var qualitySum float64
	var qualityCount uint64
	seenIds := map[string]struct{}{}

	err := source.Scan(func(variant models.Variant) bool {
		statistics.TotalVariants++

		if _, seen := statistics.VariantsPerChromosome[variant.Chromosome]; !seen {
			statistics.Chromosomes = append(statistics.Chromosomes, variant.Chromosome)
		}
		statistics.VariantsPerChromosome[variant.Chromosome]++

		if variant.Id != "" && variant.Id != "." {
			seenIds[variant.Id] = struct{}{}
		} else {
			statistics.MissingIds++
		}

		if variant.Quality != nil {
			quality := *variant.Quality
			if statistics.QualityStats == nil {
				statistics.QualityStats = &models.QualityStats{Min: quality, Max: quality}
			}
			if quality < statistics.QualityStats.Min {
				statistics.QualityStats.Min = quality
			}
			if quality > statistics.QualityStats.Max {
				statistics.QualityStats.Max = quality
			}
			qualitySum += quality
			qualityCount++
		}

		for _, filter := range variant.Filter {
			statistics.FilterCounts[filter]++
		}

		switch classifyVariant(variant) {
		case "snp":
			statistics.VariantTypes.Snps++
		case "insertion":
			statistics.VariantTypes.Insertions++
		case "deletion":
			statistics.VariantTypes.Deletions++
		case "mnp":
			statistics.VariantTypes.Mnps++
		default:
			statistics.VariantTypes.Complex++
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	if qualityCount > 0 {
		statistics.QualityStats.Mean = qualitySum / float64(qualityCount)
	}
	statistics.UniqueIds = uint64(len(seenIds))
	statistics.ChromosomeCount = len(statistics.Chromosomes)

	return statistics, nil
}

// classifyVariant buckets a record by the shape of its alleles.
// Multi-allelic and symbolic records fall through to "complex".
func classifyVariant(variant models.Variant) string {
	if len(variant.Alternate) != 1 {
		return "complex"
	}
	reference, alternate := variant.Reference, variant.Alternate[0]
	switch {
	case len(reference) == 1 && len(alternate) == 1:
		return "snp"
	case len(reference) < len(alternate):
		return "insertion"
	case len(reference) > len(alternate):
		return "deletion"
	case len(reference) > 1:
		return "mnp"
	default:
		return "complex"
	}
}

func statisticsPath(vcfPath string) string {
	return vcfPath + ".stats"
}

func loadStatistics(path string) (*models.VcfStatistics, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var statistics models.VcfStatistics
	if err := gob.NewDecoder(bufio.NewReader(file)).Decode(&statistics); err != nil {
		return nil, fmt.Errorf("decoding statistics cache %s : %w", path, err)
	}
	return &statistics, nil
}

func saveStatistics(statistics *models.VcfStatistics, path string, debug bool) error {
	return utils.WriteSidecarAtomic(path, debug, func(w *bufio.Writer) error {
		return gob.NewEncoder(w).Encode(statistics)
	})
}

func loadOrComputeStatistics(store *vcf.Store, cfg *models.Config) (*models.VcfStatistics, error) {
	path := statisticsPath(store.Path())

	if _, err := os.Stat(path); err == nil {
		statistics, err := loadStatistics(path)
		if err == nil {
			fmt.Printf("[%s] - Loaded statistics cache from %s\n", time.Now(), path)
			return statistics, nil
		}
		fmt.Printf("[%s] - Recomputing statistics : %v\n", time.Now(), err)
	}

	statistics, err := computeStatistics(store, store.HeaderInfo())
	if err != nil {
		return nil, fmt.Errorf("computing statistics : %w", err)
	}
	fmt.Printf("[%s] - Computed statistics (%d variants)\n", time.Now(), statistics.TotalVariants)

	if !cfg.Api.NeverSaveIndexes {
		if err := saveStatistics(statistics, path, cfg.Debug); err != nil {
			fmt.Printf("[%s] - Failed saving statistics cache : %v\n", time.Now(), err)
		}
	}

	return statistics, nil
}
