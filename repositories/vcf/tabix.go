package vcf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/brentp/bix"
	"github.com/brentp/irelate/interfaces"
	"github.com/klauspost/compress/gzip"
)

const tabixMagic = "TBI\x01"

type (
	// rangeIndex is the capability boundary over the two supported
	// positional index formats. Implementations return the raw rows of
	// all candidate records near [start, end] on one chromosome; exact
	// interval filtering happens in the Store.
	rangeIndex interface {
		queryRows(chromosome string, start, end uint64) ([]string, error)
		close() error
	}

	tabixIndex struct {
		tbx *bix.Bix

		// reference names the index was built over
		known map[string]bool
	}

	// queryWindow adapts a 1-based inclusive window to the 0-based
	// half-open convention the tabix reader expects.
	queryWindow struct {
		chromosome string
		start, end uint64
	}
)

func (w queryWindow) Chrom() string {
	return w.chromosome
}

func (w queryWindow) Start() uint32 {
	return uint32(w.start - 1)
}

func (w queryWindow) End() uint32 {
	return uint32(w.end)
}

func newTabixIndex(path string) (rangeIndex, error) {
	known, err := tabixReferenceNames(path)
	if err != nil {
		return nil, err
	}

	tbx, err := bix.New(path)
	if err != nil {
		return nil, err
	}
	return &tabixIndex{tbx: tbx, known: known}, nil
}

// tabixReferenceNames decodes the name table of the `.tbi` sidecar
// (the reader resolves names internally but never exposes them). The
// store needs the table to tell an unknown chromosome apart from a
// broken index.
func tabixReferenceNames(path string) (map[string]bool, error) {
	file, err := os.Open(path + ".tbi")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	if err := expectBytes(gz, []byte(tabixMagic)); err != nil {
		return nil, err
	}

	var tbiHeader struct {
		References  int32
		Format      int32
		SeqColumn   int32
		BeginColumn int32
		EndColumn   int32
		Meta        int32
		Skip        int32
		NameLength  int32
	}
	if err := readLE(gz, &tbiHeader); err != nil {
		return nil, fmt.Errorf("reading tbi header: %v", err)
	}
	if tbiHeader.NameLength < 0 {
		return nil, fmt.Errorf("bad name table length %d", tbiHeader.NameLength)
	}

	block := make([]byte, tbiHeader.NameLength)
	if _, err := io.ReadFull(gz, block); err != nil {
		return nil, fmt.Errorf("reading reference names: %v", err)
	}

	known := map[string]bool{}
	for _, name := range bytes.Split(block, []byte{0}) {
		if len(name) > 0 {
			known[string(name)] = true
		}
	}
	return known, nil
}

func (t *tabixIndex) queryRows(chromosome string, start, end uint64) ([]string, error) {
	if !t.known[chromosome] {
		// the index carries no reference by that name
		return nil, nil
	}

	iter, err := t.tbx.Query(queryWindow{chromosome, start, end})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var rows []string
	for {
		record, err := iter.Next()
		if err != nil {
			// io.EOF or a damaged trailing record ends the iteration
			break
		}
		variant, ok := record.(interfaces.IVariant)
		if !ok {
			continue
		}
		rows = append(rows, variant.String())
	}
	return rows, nil
}

func (t *tabixIndex) close() error {
	return t.tbx.Close()
}
