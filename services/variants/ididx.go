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

// IdIndex maps a variant identifier to every location it occurs at.
// Records whose ID column is the missing marker are not indexed.
type IdIndex map[string][]models.Location

type recordSource interface {
	Scan(fn func(models.Variant) bool) error
}

func buildIdIndex(source recordSource) (IdIndex, error) {
	index := IdIndex{}
	err := source.Scan(func(variant models.Variant) bool {
		if variant.Id != "" && variant.Id != "." {
			index[variant.Id] = append(index[variant.Id], models.Location{
				Chromosome: variant.Chromosome,
				Position:   variant.Position,
			})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

func idIndexPath(vcfPath string) string {
	return vcfPath + ".idx"
}

func loadIdIndex(path string) (IdIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var index IdIndex
	if err := gob.NewDecoder(bufio.NewReader(file)).Decode(&index); err != nil {
		return nil, fmt.Errorf("decoding identifier index %s : %w", path, err)
	}
	return index, nil
}

func saveIdIndex(index IdIndex, path string, debug bool) error {
	return utils.WriteSidecarAtomic(path, debug, func(w *bufio.Writer) error {
		return gob.NewEncoder(w).Encode(index)
	})
}

// loadOrBuildIdIndex reloads a previously saved sidecar when one is
// present and readable; anything else triggers a fresh scan. A corrupt
// or stale sidecar is never fatal. Saving failures are reported but the
// in-memory index is used regardless.
func loadOrBuildIdIndex(store *vcf.Store, cfg *models.Config) (IdIndex, error) {
	path := idIndexPath(store.Path())

	if _, err := os.Stat(path); err == nil {
		index, err := loadIdIndex(path)
		if err == nil {
			fmt.Printf("[%s] - Loaded identifier index from %s (%d ids)\n", time.Now(), path, len(index))
			return index, nil
		}
		fmt.Printf("[%s] - Rebuilding identifier index : %v\n", time.Now(), err)
	}

	index, err := buildIdIndex(store)
	if err != nil {
		return nil, fmt.Errorf("building identifier index : %w", err)
	}
	fmt.Printf("[%s] - Built identifier index (%d ids)\n", time.Now(), len(index))

	if !cfg.Api.NeverSaveIndexes {
		if err := saveIdIndex(index, path, cfg.Debug); err != nil {
			fmt.Printf("[%s] - Failed saving identifier index : %v\n", time.Now(), err)
		}
	}

	return index, nil
}
