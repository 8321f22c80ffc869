package vcf

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"locus/api/models"
)

type (
	// Header is the parsed meta-information block of the file: the
	// ##-prefixed lines plus the #CHROM column line.
	Header struct {
		FileFormat    string
		Reference     string
		Contigs       []models.ContigInfo
		ContigLengths map[string]uint64
		Samples       []string
		RawLines      []string
	}
)

// ReadHeader decompresses the file from the start and parses lines up to
// (and excluding) the first data row.
func ReadHeader(path string) (*Header, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	header := &Header{
		ContigLengths: map[string]uint64{},
	}

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRowSize)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			break
		}
		header.RawLines = append(header.RawLines, line)

		switch {
		case strings.HasPrefix(line, "##fileformat="):
			header.FileFormat = strings.TrimPrefix(line, "##fileformat=")
		case strings.HasPrefix(line, "##reference="):
			header.Reference = strings.TrimPrefix(line, "##reference=")
		case strings.HasPrefix(line, "##contig=<"):
			header.parseContigLine(line)
		case strings.HasPrefix(line, "#CHROM"):
			// sample names start after the 9 fixed columns
			columns := strings.Split(line, "\t")
			if len(columns) > 9 {
				header.Samples = columns[9:]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return header, nil
}

func (h *Header) parseContigLine(line string) {
	body := strings.TrimSuffix(strings.TrimPrefix(line, "##contig=<"), ">")

	var id string
	var length uint64
	for _, part := range strings.Split(body, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		switch key {
		case "ID":
			id = value
		case "length":
			length, _ = strconv.ParseUint(value, 10, 64)
		}
	}

	if id == "" {
		return
	}
	h.Contigs = append(h.Contigs, models.ContigInfo{Id: id})
	if length > 0 {
		h.ContigLengths[id] = length
	}
}

func (h *Header) ContigNames() []string {
	names := make([]string, 0, len(h.Contigs))
	for _, contig := range h.Contigs {
		names = append(names, contig.Id)
	}
	return names
}

// String reassembles the raw header text; maxLines > 0 truncates it.
func (h *Header) String(maxLines int) string {
	lines := h.RawLines
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
