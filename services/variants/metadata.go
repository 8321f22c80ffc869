package variantsService

import (
	"fmt"
	"strings"

	"locus/api/models"
	"locus/api/repositories/vcf"
)

// chr1 lengths distinguishing the two common human reference builds.
// A small tolerance absorbs header rounding seen in the wild.
const (
	chr1LengthGRCh37 = 249250621
	chr1LengthGRCh38 = 248956422

	contigLengthTolerance = 1000
)

func extractMetadata(header *vcf.Header) models.VcfMetadata {
	metadata := models.VcfMetadata{
		FileFormat:      header.FileFormat,
		ReferenceGenome: extractReferenceGenome(header),
		Samples:         header.Samples,
	}

	for _, headerContig := range header.Contigs {
		contig := models.ContigInfo{Id: headerContig.Id}
		if length, found := header.ContigLengths[headerContig.Id]; found {
			contigLength := length
			contig.Length = &contigLength
		}
		metadata.Contigs = append(metadata.Contigs, contig)
	}

	return metadata
}

// extractReferenceGenome prefers the ##reference header line; failing
// that it guesses the human build from the chr1 contig length.
func extractReferenceGenome(header *vcf.Header) models.ReferenceGenomeInfo {
	if header.Reference != "" {
		return models.ReferenceGenomeInfo{
			Build:  normalizeBuildName(header.Reference),
			Source: models.GenomeSourceHeaderLine,
		}
	}

	if build, inferred := inferGenomeBuildFromContigs(header); inferred {
		return models.ReferenceGenomeInfo{
			Build:  build,
			Source: models.GenomeSourceInferred,
		}
	}

	return models.ReferenceGenomeInfo{Source: models.GenomeSourceUnknown}
}

func inferGenomeBuildFromContigs(header *vcf.Header) (string, bool) {
	for _, name := range []string{"1", "chr1"} {
		length, found := header.ContigLengths[name]
		if !found {
			continue
		}
		if withinTolerance(length, chr1LengthGRCh37) {
			return "GRCh37", true
		}
		if withinTolerance(length, chr1LengthGRCh38) {
			return "GRCh38", true
		}
	}
	return "", false
}

func withinTolerance(length, expected uint64) bool {
	if length > expected {
		return length-expected <= contigLengthTolerance
	}
	return expected-length <= contigLengthTolerance
}

// formatReferenceGenome renders the provenance-qualified build string
// used by statistics and the reference-genome lookup.
func formatReferenceGenome(info models.ReferenceGenomeInfo) string {
	switch info.Source {
	case models.GenomeSourceHeaderLine:
		return fmt.Sprintf("%s (from header)", info.Build)
	case models.GenomeSourceInferred:
		return fmt.Sprintf("%s (inferred from contigs)", info.Build)
	default:
		return "unknown"
	}
}

// normalizeBuildName is used when comparing a header-declared reference
// against the well-known build names.
func normalizeBuildName(reference string) string {
	lowered := strings.ToLower(reference)
	switch {
	case strings.Contains(lowered, "grch38"), strings.Contains(lowered, "hg38"):
		return "GRCh38"
	case strings.Contains(lowered, "grch37"), strings.Contains(lowered, "hg19"):
		return "GRCh37"
	default:
		return reference
	}
}
