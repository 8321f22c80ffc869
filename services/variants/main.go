package variantsService

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"locus/api/models"
	"locus/api/repositories/vcf"
)

type (
	VariantService struct {
		Config     *models.Config
		Store      *vcf.Store
		IdIndex    IdIndex
		Statistics *models.VcfStatistics
	}
)

// NewVariantService opens the source file and its positional index,
// then builds (or reloads) the identifier index and the statistics
// snapshot. Both are immutable once this returns, so they may be read
// concurrently without locking.
func NewVariantService(cfg *models.Config) (*VariantService, error) {
	store, err := vcf.Open(cfg.Api.VcfPath)
	if err != nil {
		return nil, err
	}

	vs := &VariantService{
		Config: cfg,
		Store:  store,
	}

	// the two load-time scans are independent of one another
	var g errgroup.Group
	g.Go(func() error {
		index, err := loadOrBuildIdIndex(store, cfg)
		if err != nil {
			return err
		}
		vs.IdIndex = index
		return nil
	})
	g.Go(func() error {
		statistics, err := loadOrComputeStatistics(store, cfg)
		if err != nil {
			return err
		}
		vs.Statistics = statistics
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vs, nil
}

// QueryByPosition is a region query with start == end.
func (vs *VariantService) QueryByPosition(chromosome string, position uint64) ([]models.Variant, *string) {
	return vs.QueryByRegion(chromosome, position, position)
}

// QueryByRegion returns all records intersecting [start, end] on the
// resolved chromosome, in position order. A nil matched-chromosome
// pointer means the requested name could not be resolved at all, which
// callers distinguish from "matched but zero records in range".
func (vs *VariantService) QueryByRegion(chromosome string, start, end uint64) ([]models.Variant, *string) {
	matched, found := vs.ResolveChromosome(chromosome)
	if !found {
		return nil, nil
	}

	results, err := vs.Store.QueryRegion(matched, start, end)
	if err != nil {
		fmt.Printf("[%s] - Region query %s:%d-%d failed : %v\n", time.Now(), matched, start, end, err)
		return nil, &matched
	}
	return results, &matched
}

// QueryById materializes every record carrying the identifier by
// resolving its stored locations through the positional index.
func (vs *VariantService) QueryById(id string) []models.Variant {
	locations, found := vs.IdIndex[id]
	if !found {
		return nil
	}

	var results []models.Variant
	for _, location := range locations {
		variants, err := vs.Store.QueryRegion(location.Chromosome, location.Position, location.Position)
		if err != nil {
			continue
		}
		for _, variant := range variants {
			// another record can share the position
			if variant.Id == id {
				results = append(results, variant)
			}
		}
	}
	return results
}

// GetStatistics returns the cached snapshot. maxChromosomes > 0 trims
// the per-chromosome table to the N most populated chromosomes.
func (vs *VariantService) GetStatistics(maxChromosomes int) models.VcfStatistics {
	statistics := *vs.Statistics

	if maxChromosomes > 0 && len(statistics.VariantsPerChromosome) > maxChromosomes {
		type chromosomeCount struct {
			name  string
			count uint64
		}
		counts := make([]chromosomeCount, 0, len(statistics.VariantsPerChromosome))
		for name, count := range statistics.VariantsPerChromosome {
			counts = append(counts, chromosomeCount{name, count})
		}
		sort.Slice(counts, func(i, j int) bool {
			return counts[i].count > counts[j].count
		})

		limited := make(map[string]uint64, maxChromosomes)
		for _, entry := range counts[:maxChromosomes] {
			limited[entry.name] = entry.count
		}
		statistics.VariantsPerChromosome = limited
	}

	return statistics
}

// QueryResolvedRegion queries a chromosome already spelled the way the
// file spells it, skipping name resolution.
func (vs *VariantService) QueryResolvedRegion(chromosome string, start, end uint64) ([]models.Variant, error) {
	return vs.Store.QueryRegion(chromosome, start, end)
}

func (vs *VariantService) GetMetadata() models.VcfMetadata {
	return extractMetadata(vs.Store.HeaderInfo())
}

// GetAvailableChromosomes lists the names the file actually uses:
// header contigs first, falling back to the names observed by the
// statistics scan when the header carries none.
func (vs *VariantService) GetAvailableChromosomes() []string {
	if names := vs.Store.HeaderInfo().ContigNames(); len(names) > 0 {
		return names
	}
	return vs.Statistics.Chromosomes
}

func (vs *VariantService) GetHeaderString(maxLines int) string {
	return vs.Store.HeaderInfo().String(maxLines)
}

func (vs *VariantService) Close() error {
	return vs.Store.Close()
}
