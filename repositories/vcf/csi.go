package vcf

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// CSI binning index support (http://samtools.github.io/hts-specs/CSIv1.pdf).
// Used when the file ships a `.csi` sidecar instead of a `.tbi`.

const csiMagic = "CSI\x01"

// virtualAddress is a BGZF virtual offset: the upper 48 bits locate the
// compressed block, the lower 16 bits the record inside the uncompressed
// block.
type virtualAddress uint64

func (v virtualAddress) blockOffset() uint64 {
	return uint64(v >> 16)
}

func (v virtualAddress) dataOffset() uint16 {
	return uint16(v & 0xffff)
}

type (
	csiChunk struct {
		Start, End virtualAddress
	}

	csiBin struct {
		loffset virtualAddress
		chunks  []csiChunk
	}

	csiReference struct {
		bins map[uint32]csiBin
	}

	csiIndex struct {
		path     string
		minShift int32
		depth    int32
		rank     map[string]int
		refs     []csiReference
	}
)

// newCsiIndex decodes the whole `.csi` sidecar into memory. Reference
// names come from the tabix-style auxiliary block when present, falling
// back to the header contig order otherwise (a CSI produced for a VCF
// indexes references in that order).
func newCsiIndex(path string, fallbackNames []string) (rangeIndex, error) {
	file, err := os.Open(path + ".csi")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	if err := expectBytes(gz, []byte(csiMagic)); err != nil {
		return nil, err
	}

	var csiHeader struct {
		MinShift  int32
		Depth     int32
		AuxLength int32
	}
	if err := readLE(gz, &csiHeader); err != nil {
		return nil, fmt.Errorf("reading csi header: %v", err)
	}

	aux := make([]byte, csiHeader.AuxLength)
	if _, err := io.ReadFull(gz, aux); err != nil {
		return nil, fmt.Errorf("reading auxiliary data: %v", err)
	}
	names := auxReferenceNames(aux)
	if len(names) == 0 {
		names = fallbackNames
	}

	var references int32
	if err := readLE(gz, &references); err != nil {
		return nil, fmt.Errorf("reading reference count: %v", err)
	}

	index := &csiIndex{
		path:     path,
		minShift: csiHeader.MinShift,
		depth:    csiHeader.Depth,
		rank:     map[string]int{},
		refs:     make([]csiReference, references),
	}
	for i, name := range names {
		index.rank[name] = i
	}

	for i := int32(0); i < references; i++ {
		var binCount int32
		if err := readLE(gz, &binCount); err != nil {
			return nil, fmt.Errorf("reading bin count: %v", err)
		}

		bins := make(map[uint32]csiBin, binCount)
		for j := int32(0); j < binCount; j++ {
			var binHeader struct {
				ID     uint32
				Offset uint64
				Chunks int32
			}
			if err := readLE(gz, &binHeader); err != nil {
				return nil, fmt.Errorf("reading bin header: %v", err)
			}

			chunks := make([]csiChunk, binHeader.Chunks)
			for k := int32(0); k < binHeader.Chunks; k++ {
				if err := readLE(gz, &chunks[k]); err != nil {
					return nil, fmt.Errorf("reading chunk: %v", err)
				}
			}
			bins[binHeader.ID] = csiBin{
				loffset: virtualAddress(binHeader.Offset),
				chunks:  chunks,
			}
		}
		index.refs[i] = csiReference{bins: bins}
	}

	return index, nil
}

func (c *csiIndex) queryRows(chromosome string, start, end uint64) ([]string, error) {
	refID, known := c.rank[chromosome]
	if !known || refID >= len(c.refs) {
		return nil, nil
	}

	bins := binsForRange(uint32(start-1), uint32(end), c.minShift, c.depth)

	// earliest candidate chunk; the forward scan from there covers every
	// record the sparser chunks would have contributed
	first := virtualAddress(^uint64(0))
	found := false
	for _, binID := range bins {
		bin, ok := c.refs[refID].bins[binID]
		if !ok {
			continue
		}
		for _, chunk := range bin.chunks {
			if chunk.End < bin.loffset {
				continue
			}
			if chunk.Start < first {
				first = chunk.Start
				found = true
			}
		}
	}
	if !found {
		return nil, nil
	}

	return c.rowsFrom(first, chromosome, refID, end)
}

// rowsFrom reads records starting at a BGZF virtual offset and collects
// the raw rows of the target chromosome up to position end.
func (c *csiIndex) rowsFrom(addr virtualAddress, chromosome string, refID int, end uint64) ([]string, error) {
	file, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.Seek(int64(addr.blockOffset()), io.SeekStart); err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	if _, err := io.CopyN(io.Discard, gz, int64(addr.dataOffset())); err != nil {
		return nil, err
	}

	var rows []string
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRowSize)
	for scanner.Scan() {
		row := scanner.Text()
		if len(row) == 0 || strings.HasPrefix(row, "#") {
			continue
		}

		rowChrom, position, ok := rowChromPos(row)
		if !ok {
			continue
		}
		rowRank, known := c.rank[rowChrom]
		if !known || rowRank > refID {
			break
		}
		if rowRank < refID {
			continue
		}
		if position > end {
			break
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return rows, err
	}
	return rows, nil
}

func (c *csiIndex) close() error {
	return nil
}

// rowChromPos extracts the first two columns without decoding the row.
func rowChromPos(row string) (string, uint64, bool) {
	tab := strings.IndexByte(row, '\t')
	if tab < 0 {
		return "", 0, false
	}
	chromosome := row[:tab]

	rest := row[tab+1:]
	if next := strings.IndexByte(rest, '\t'); next >= 0 {
		rest = rest[:next]
	}
	position, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return chromosome, position, true
}

// auxReferenceNames parses the tabix-style auxiliary block: six int32
// layout fields, a name-block length, then NUL-separated names.
func auxReferenceNames(aux []byte) []string {
	if len(aux) < 28 {
		return nil
	}
	var nameLength int32
	readLE(bytes.NewReader(aux[24:28]), &nameLength)
	if nameLength <= 0 || 28+int(nameLength) > len(aux) {
		return nil
	}

	var names []string
	for _, name := range bytes.Split(aux[28:28+nameLength], []byte{0}) {
		if len(name) > 0 {
			names = append(names, string(name))
		}
	}
	return names
}

// binsForRange computes the bin IDs overlapping the 0-based interval
// [start, end). Derived from the C examples in the CSI specification.
func binsForRange(start, end uint32, minShift, depth int32) []uint32 {
	maxWidth := maximumBinWidth(minShift, depth)
	if end == 0 || end > maxWidth {
		end = maxWidth
	}
	if end <= start {
		return nil
	}
	if start > maxWidth {
		return nil
	}

	end--
	var bins []uint32
	for l, t, s := uint(0), uint(0), uint(minShift+depth*3); l <= uint(depth); l++ {
		b := t + (uint(start) >> s)
		e := t + (uint(end) >> s)
		for i := b; i <= e; i++ {
			bins = append(bins, uint32(i))
		}
		s -= 3
		t += 1 << (l * 3)
	}
	return bins
}

func maximumBinWidth(minShift, depth int32) uint32 {
	return uint32(1) << uint32(minShift+depth*3)
}

func expectBytes(r io.Reader, want []byte) error {
	got := make([]byte, len(want))
	if _, err := io.ReadFull(r, got); err != nil {
		return fmt.Errorf("reading magic: %v", err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("wrong magic %v (wanted %v)", got, want)
	}
	return nil
}

func readLE(r io.Reader, v interface{}) error {
	return binary.Read(r, binary.LittleEndian, v)
}
