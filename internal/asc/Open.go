package asc

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Open opens the grid at path. Files ending in .gz or .zst are decompressed
// on the fly.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, &IOError{Path: path, Err: err}
		}
		return &multiCloser{Reader: gz, closers: []io.Closer{gz, file}}, nil

	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, &IOError{Path: path, Err: err}
		}
		rc := dec.IOReadCloser()
		return &multiCloser{Reader: rc, closers: []io.Closer{rc, file}}, nil
	}

	return file, nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
