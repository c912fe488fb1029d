// Package mmap provides read-only memory mapping of files for the local
// blob store. Snapshot payloads are read once and sequentially, so the
// mapping is plain PROT_READ with no madvise tuning.
package mmap

import (
	"os"
)

// Mapping is a read-only memory-mapped file.
type Mapping struct {
	f    *os.File
	data []byte
}

// Open maps the file at path read-only.
// An empty file yields a valid Mapping with zero-length Bytes.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	size := info.Size()
	if size == 0 {
		return &Mapping{f: f}, nil
	}

	data, err := mapFile(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Mapping{f: f, data: data}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close unmaps the file and closes the descriptor.
func (m *Mapping) Close() error {
	var err error
	if m.data != nil {
		err = unmapFile(m.data)
		m.data = nil
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}
