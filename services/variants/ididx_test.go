package variantsService

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"locus/api/models"
)

type stubSource struct {
	variants []models.Variant
}

func (s stubSource) Scan(fn func(models.Variant) bool) error {
	for _, variant := range s.variants {
		if !fn(variant) {
			return nil
		}
	}
	return nil
}

func testVariants() []models.Variant {
	quality := func(q float64) *float64 { return &q }
	return []models.Variant{
		{Chromosome: "chr1", Position: 100, Id: "rs1", Reference: "A", Alternate: []string{"G"}, Quality: quality(50), Filter: []string{"PASS"}},
		{Chromosome: "chr1", Position: 200, Id: ".", Reference: "AC", Alternate: []string{"A"}, Quality: quality(30), Filter: []string{"PASS"}},
		{Chromosome: "chr2", Position: 150, Id: "rs2", Reference: "T", Alternate: []string{"TA"}, Filter: []string{"q10"}},
		{Chromosome: "chr2", Position: 300, Id: "rs1", Reference: "C", Alternate: []string{"G", "T"}, Quality: quality(10)},
	}
}

func TestBuildIdIndex(t *testing.T) {
	index, err := buildIdIndex(stubSource{testVariants()})
	assert.Nil(t, err)

	t.Run("should record every location of a shared id", func(t *testing.T) {
		assert.Equal(t, []models.Location{
			{Chromosome: "chr1", Position: 100},
			{Chromosome: "chr2", Position: 300},
		}, index["rs1"])
	})

	t.Run("should skip records without an id", func(t *testing.T) {
		_, found := index["."]
		assert.False(t, found)
		assert.Equal(t, 2, len(index))
	})
}

func TestIdIndexPersistence(t *testing.T) {
	t.Run("should roundtrip through the sidecar", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.vcf.gz.idx")

		index, err := buildIdIndex(stubSource{testVariants()})
		assert.Nil(t, err)
		assert.Nil(t, saveIdIndex(index, path, false))

		reloaded, err := loadIdIndex(path)
		assert.Nil(t, err)
		assert.Equal(t, index, reloaded)
	})

	t.Run("should fail on a corrupt sidecar", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corrupt.idx")
		assert.Nil(t, os.WriteFile(path, []byte("not a gob"), 0644))

		_, err := loadIdIndex(path)
		assert.NotNil(t, err)
	})

	t.Run("should fail on a missing sidecar", func(t *testing.T) {
		_, err := loadIdIndex(filepath.Join(t.TempDir(), "absent.idx"))
		assert.NotNil(t, err)
	})

	t.Run("should derive the sidecar path from the file path", func(t *testing.T) {
		assert.Equal(t, "/data/test.vcf.gz.idx", idIndexPath("/data/test.vcf.gz"))
	})
}
