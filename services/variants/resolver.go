package variantsService

import (
	"strings"

	"locus/api/models/dtos"
	"locus/api/utils"
)

const maxSampleChromosomes = 5

// chromosomeCandidates returns the spellings tried for a requested
// chromosome name, in priority order: the name as given, then its
// "chr"-prefixed or -stripped counterpart.
func chromosomeCandidates(chromosome string) []string {
	candidates := []string{chromosome}
	if strings.HasPrefix(chromosome, "chr") {
		candidates = append(candidates, strings.TrimPrefix(chromosome, "chr"))
	} else {
		candidates = append(candidates, "chr"+chromosome)
	}
	return candidates
}

// ResolveChromosome maps a requested name onto the spelling the file
// uses. Matching is case sensitive; only the exact name and its
// prefix-toggled counterpart are tried.
func (vs *VariantService) ResolveChromosome(chromosome string) (string, bool) {
	return resolveChromosome(chromosome, vs.GetAvailableChromosomes())
}

func resolveChromosome(chromosome string, available []string) (string, bool) {
	for _, candidate := range chromosomeCandidates(chromosome) {
		if utils.StringInSlice(candidate, available) {
			return candidate, true
		}
	}
	return "", false
}

// ChromosomeHint describes why a requested chromosome missed, for
// inclusion in otherwise-empty responses.
func (vs *VariantService) ChromosomeHint(requested string) *dtos.ChromosomeHint {
	return buildChromosomeHint(requested, vs.GetAvailableChromosomes())
}

func buildChromosomeHint(requested string, available []string) *dtos.ChromosomeHint {
	samples := available
	if len(samples) > maxSampleChromosomes {
		samples = samples[:maxSampleChromosomes]
	}

	hint := &dtos.ChromosomeHint{
		Requested:         requested,
		SampleChromosomes: samples,
	}

	// the prefix-toggled spelling is only a suggestion when the file
	// would actually accept it
	alternate := chromosomeCandidates(requested)[1]
	if utils.StringInSlice(alternate, available) {
		hint.SuggestedSpelling = alternate
	}

	return hint
}
