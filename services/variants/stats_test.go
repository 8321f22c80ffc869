package variantsService

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"locus/api/models"
	"locus/api/repositories/vcf"
)

func statsTestHeader() *vcf.Header {
	return &vcf.Header{
		FileFormat: "VCFv4.2",
		Reference:  "GRCh38",
		Samples:    []string{"HG001", "HG002"},
	}
}

func TestComputeStatistics(t *testing.T) {
	statistics, err := computeStatistics(stubSource{testVariants()}, statsTestHeader())
	assert.Nil(t, err)

	t.Run("should carry the header facts", func(t *testing.T) {
		assert.Equal(t, "VCFv4.2", statistics.FileFormat)
		assert.Equal(t, "GRCh38 (from header)", statistics.ReferenceGenome)
		assert.Equal(t, 2, statistics.SampleCount)
	})

	t.Run("should count variants per chromosome in first-seen order", func(t *testing.T) {
		assert.Equal(t, uint64(4), statistics.TotalVariants)
		assert.Equal(t, []string{"chr1", "chr2"}, statistics.Chromosomes)
		assert.Equal(t, 2, statistics.ChromosomeCount)
		assert.Equal(t, uint64(2), statistics.VariantsPerChromosome["chr1"])
		assert.Equal(t, uint64(2), statistics.VariantsPerChromosome["chr2"])
	})

	t.Run("should count distinct and missing ids", func(t *testing.T) {
		// rs1 occurs twice but counts once
		assert.Equal(t, uint64(2), statistics.UniqueIds)
		assert.Equal(t, uint64(1), statistics.MissingIds)
	})

	t.Run("should aggregate quality over records that have one", func(t *testing.T) {
		assert.NotNil(t, statistics.QualityStats)
		assert.Equal(t, 10.0, statistics.QualityStats.Min)
		assert.Equal(t, 50.0, statistics.QualityStats.Max)
		assert.Equal(t, 30.0, statistics.QualityStats.Mean)
	})

	t.Run("should count filters", func(t *testing.T) {
		assert.Equal(t, uint64(2), statistics.FilterCounts["PASS"])
		assert.Equal(t, uint64(1), statistics.FilterCounts["q10"])
	})

	t.Run("should bucket variant types", func(t *testing.T) {
		assert.Equal(t, uint64(1), statistics.VariantTypes.Snps)
		assert.Equal(t, uint64(1), statistics.VariantTypes.Insertions)
		assert.Equal(t, uint64(1), statistics.VariantTypes.Deletions)
		assert.Equal(t, uint64(1), statistics.VariantTypes.Complex)
	})

	t.Run("should leave quality stats nil when no record has one", func(t *testing.T) {
		unscored, err := computeStatistics(stubSource{[]models.Variant{
			{Chromosome: "1", Position: 5, Id: ".", Reference: "A", Alternate: []string{"T"}},
		}}, statsTestHeader())

		assert.Nil(t, err)
		assert.Nil(t, unscored.QualityStats)
	})
}

func TestClassifyVariant(t *testing.T) {
	cases := []struct {
		name      string
		reference string
		alternate []string
		expected  string
	}{
		{"snp", "A", []string{"G"}, "snp"},
		{"insertion", "A", []string{"AT"}, "insertion"},
		{"deletion", "ACGT", []string{"A"}, "deletion"},
		{"mnp", "AT", []string{"GC"}, "mnp"},
		{"multi-allelic", "A", []string{"G", "T"}, "complex"},
		{"no alternate", "A", nil, "complex"},
	}

	for _, c := range cases {
		t.Run("should classify a "+c.name, func(t *testing.T) {
			variant := models.Variant{Reference: c.reference, Alternate: c.alternate}
			assert.Equal(t, c.expected, classifyVariant(variant))
		})
	}
}

func TestStatisticsPersistence(t *testing.T) {
	t.Run("should roundtrip through the sidecar", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.vcf.gz.stats")

		statistics, err := computeStatistics(stubSource{testVariants()}, statsTestHeader())
		assert.Nil(t, err)
		assert.Nil(t, saveStatistics(statistics, path, false))

		reloaded, err := loadStatistics(path)
		assert.Nil(t, err)
		assert.Equal(t, statistics, reloaded)
	})

	t.Run("should derive the sidecar path from the file path", func(t *testing.T) {
		assert.Equal(t, "/data/test.vcf.gz.stats", statisticsPath("/data/test.vcf.gz"))
	})
}
