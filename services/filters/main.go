package filtersService

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"locus/api/repositories/vcf"
)

type (
	// FilterService evaluates the small boolean filter DSL
	// (e.g. `QUAL > 30 && FILTER == "PASS"`) against the raw textual
	// form of a record. Compiled programs are cached per expression.
	FilterService struct {
		programs    map[string]*vm.Program
		programsMux sync.RWMutex
	}
)

func NewFilterService() *FilterService {
	return &FilterService{
		programs: map[string]*vm.Program{},
	}
}

// Parse validates an expression up front; a parse error is the caller's
// invalid input, not a query failure.
func (fs *FilterService) Parse(expression string) error {
	_, err := fs.compile(expression)
	return err
}

// Evaluate runs the expression against one raw record row. Callers
// treat any evaluation error as "does not match".
func (fs *FilterService) Evaluate(expression string, rawRow string) (bool, error) {
	program, err := fs.compile(expression)
	if err != nil {
		return false, err
	}

	env, err := rowEnvironment(rawRow)
	if err != nil {
		return false, err
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, err
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression is not boolean: %q", expression)
	}
	return matched, nil
}

func (fs *FilterService) compile(expression string) (*vm.Program, error) {
	fs.programsMux.RLock()
	program, cached := fs.programs[expression]
	fs.programsMux.RUnlock()
	if cached {
		return program, nil
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool())
	if err != nil {
		return nil, err
	}

	fs.programsMux.Lock()
	fs.programs[expression] = program
	fs.programsMux.Unlock()
	return program, nil
}

// rowEnvironment exposes the record's fixed columns and flattened INFO
// keys as expression identifiers.
func rowEnvironment(rawRow string) (map[string]interface{}, error) {
	variant, err := vcf.ParseRecord(rawRow)
	if err != nil {
		return nil, err
	}

	env := map[string]interface{}{
		"CHROM":  variant.Chromosome,
		"POS":    int64(variant.Position),
		"ID":     variant.Id,
		"REF":    variant.Reference,
		"ALT":    variant.Alternate,
		"FILTER": strings.Join(variant.Filter, ";"),
	}
	if variant.Quality != nil {
		env["QUAL"] = *variant.Quality
	}
	for key, value := range variant.Info {
		if _, taken := env[key]; !taken {
			env[key] = value
		}
	}
	return env, nil
}
