package utils

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

// WriteSidecarAtomic persists a derived file (identifier index, statistics
// snapshot) next to its source:
//   - encode into a sibling *.tmp file and fsync it
//   - if the destination appeared meanwhile (another process raced us to
//     build the same sidecar), discard the temp file and keep theirs
//   - otherwise rename the temp file into place
// Half-written sidecars are therefore never observable at the final path.
func WriteSidecarAtomic(destPath string, debug bool, encode func(w *bufio.Writer) error) error {
	tmpPath := destPath + ".tmp"

	if debug {
		fmt.Printf("[%s] - Writing temporary sidecar file %s ..\n", time.Now(), tmpPath)
	}

	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(tmpFile)
	if err := encode(writer); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	// another process may have built and persisted first
	if _, err := os.Stat(destPath); err == nil {
		if debug {
			fmt.Printf("[%s] - Sidecar %s appeared during write, keeping the existing one ..\n", time.Now(), destPath)
		}
		return os.Remove(tmpPath)
	}

	return os.Rename(tmpPath, destPath)
}
