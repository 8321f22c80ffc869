package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"locus/api/models"
)

const missingValue = "."

// ParseRecord decodes one raw VCF data row into a Variant. The decoder
// exposes typed INFO values directly (integer, float, flag, string, and
// comma-separated arrays with per-element coercion).
func ParseRecord(row string) (models.Variant, error) {
	fields := strings.Split(row, "\t")
	if len(fields) < 8 {
		return models.Variant{}, fmt.Errorf("malformed record: %d columns", len(fields))
	}

	position, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil || position == 0 {
		return models.Variant{}, fmt.Errorf("malformed position %q", fields[1])
	}

	variant := models.Variant{
		Chromosome: fields[0],
		Position:   position,
		Id:         fields[2],
		Reference:  fields[3],
		Alternate:  parseAlternate(fields[4]),
		Filter:     parseFilter(fields[6]),
		Info:       parseInfo(fields[7]),
		RawRow:     row,
	}

	if fields[5] != missingValue {
		quality, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return models.Variant{}, fmt.Errorf("malformed quality %q", fields[5])
		}
		variant.Quality = &quality
	}

	return variant, nil
}

func parseAlternate(field string) []string {
	if field == missingValue || field == "" {
		return nil
	}
	return strings.Split(field, ",")
}

func parseFilter(field string) []string {
	if field == missingValue || field == "" {
		return nil
	}
	return strings.Split(field, ";")
}

func parseInfo(field string) map[string]interface{} {
	info := map[string]interface{}{}
	if field == missingValue || field == "" {
		return info
	}

	for _, entry := range strings.Split(field, ";") {
		key, value, found := strings.Cut(entry, "=")
		if key == "" {
			continue
		}
		if !found {
			// flag with no value - just the key is present
			info[key] = true
			continue
		}
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			values := make([]interface{}, 0, len(parts))
			for _, part := range parts {
				values = append(values, coerceInfoValue(part))
			}
			info[key] = values
			continue
		}
		info[key] = coerceInfoValue(value)
	}
	return info
}

// coerceInfoValue tries integer, then float, then falls back to string.
func coerceInfoValue(value string) interface{} {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}
