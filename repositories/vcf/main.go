package vcf

import (
	"fmt"
	"math"
	"os"
	"sync"

	"locus/api/models"
)

type (
	// Store owns the open VCF file, its parsed header and the positional
	// index. The underlying reader/decoder state is not shareable across
	// simultaneous reads, so every positional query is serialized behind
	// one mutex.
	Store struct {
		path   string
		header *Header
		index  rangeIndex
		mux    sync.Mutex
	}
)

// Open opens the block-compressed VCF at path and its positional index.
// A `.tbi` index is preferred; `.csi` is used as a fallback. A missing
// source file or missing index aborts the load entirely.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening vcf file: %v", err)
	}

	header, err := ReadHeader(path)
	if err != nil {
		return nil, fmt.Errorf("reading vcf header: %v", err)
	}

	var index rangeIndex
	if _, err := os.Stat(path + ".tbi"); err == nil {
		index, err = newTabixIndex(path)
		if err != nil {
			return nil, fmt.Errorf("opening tabix index: %v", err)
		}
	} else if _, err := os.Stat(path + ".csi"); err == nil {
		index, err = newCsiIndex(path, header.ContigNames())
		if err != nil {
			return nil, fmt.Errorf("opening csi index: %v", err)
		}
	} else {
		return nil, fmt.Errorf("no positional index found for %s (expected %s.tbi or %s.csi)", path, path, path)
	}

	return &Store{
		path:   path,
		header: header,
		index:  index,
	}, nil
}

// QueryRegion returns all decoded records whose interval intersects
// [start, end] (1-based, inclusive) on the given chromosome, in file
// order. The chromosome must already be resolved against the file's
// naming convention. Coordinates outside the representable range and
// inverted windows yield an empty result, never an error. Individual
// records that fail to decode are silently excluded.
func (s *Store) QueryRegion(chromosome string, start, end uint64) ([]models.Variant, error) {
	if start == 0 || end == 0 || start > end || start > math.MaxUint32 {
		return nil, nil
	}
	if end > math.MaxUint32 {
		end = math.MaxUint32
	}

	s.mux.Lock()
	rows, err := s.index.queryRows(chromosome, start, end)
	s.mux.Unlock()
	if err != nil {
		return nil, err
	}

	var results []models.Variant
	for _, row := range rows {
		variant, parseErr := ParseRecord(row)
		if parseErr != nil {
			// one damaged row must not abort the whole query
			continue
		}
		if variant.Chromosome != chromosome {
			continue
		}
		if variant.Position > end || variant.IntervalEnd() < start {
			continue
		}
		results = append(results, variant)
	}
	return results, nil
}

// Scan decodes every record of the file in order, invoking fn for each
// until fn returns false. Rows that fail to decode are skipped. Scan
// uses its own reader and does not contend with positional queries.
func (s *Store) Scan(fn func(models.Variant) bool) error {
	return ScanRows(s.path, func(row string) bool {
		variant, err := ParseRecord(row)
		if err != nil {
			return true
		}
		return fn(variant)
	})
}

func (s *Store) HeaderInfo() *Header {
	return s.header
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.index.close()
}
