package vcf

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// scanner rows can carry many samples; allow long lines
const maxRowSize = 8 * 1024 * 1024

// ScanRows streams every data row of the file in order, skipping header
// lines, until fn returns false.
func ScanRows(path string, fn func(row string) bool) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRowSize)
	for scanner.Scan() {
		row := scanner.Text()
		if len(row) == 0 || strings.HasPrefix(row, "#") {
			continue
		}
		if !fn(row) {
			return nil
		}
	}
	return scanner.Err()
}
