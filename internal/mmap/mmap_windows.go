//go:build windows

package mmap

import (
	"io"
	"os"
)

// Windows fallback: read the whole file instead of mapping it. Snapshot
// payloads are bounded by coil-set size, so this stays cheap.
func mapFile(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(size)), data); err != nil {
		return nil, err
	}
	return data, nil
}

func unmapFile([]byte) error {
	return nil
}
