package utils

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteSidecarAtomic(t *testing.T) {
	t.Run("should write the destination and remove the temp file", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "test.idx")

		err := WriteSidecarAtomic(dest, false, func(w *bufio.Writer) error {
			_, err := w.WriteString("payload")
			return err
		})
		assert.Nil(t, err)

		contents, err := os.ReadFile(dest)
		assert.Nil(t, err)
		assert.Equal(t, "payload", string(contents))

		_, err = os.Stat(dest + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("should keep an existing destination when racing", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "test.idx")

		err := WriteSidecarAtomic(dest, false, func(w *bufio.Writer) error {
			// simulate another process finishing first
			assert.Nil(t, os.WriteFile(dest, []byte("theirs"), 0644))
			_, err := w.WriteString("ours")
			return err
		})
		assert.Nil(t, err)

		contents, err := os.ReadFile(dest)
		assert.Nil(t, err)
		assert.Equal(t, "theirs", string(contents))

		_, err = os.Stat(dest + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("should clean up after a failed encode", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "test.idx")
		encodeErr := errors.New("encode failed")

		err := WriteSidecarAtomic(dest, false, func(w *bufio.Writer) error {
			return encodeErr
		})
		assert.Equal(t, encodeErr, err)

		_, err = os.Stat(dest)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(dest + ".tmp")
		assert.True(t, os.IsNotExist(err))
	})
}

func TestStringInSlice(t *testing.T) {
	assert.True(t, StringInSlice("chr1", []string{"chr1", "chr2"}))
	assert.False(t, StringInSlice("chr3", []string{"chr1", "chr2"}))
	assert.False(t, StringInSlice("chr1", nil))
}
