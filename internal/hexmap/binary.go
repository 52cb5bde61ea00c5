package hexmap

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/uber/h3-go/v4"
)

// Binary layout: an uncompressed magic, then a zstd stream holding a
// big-endian uint64 record count followed by (uint64 cell, uint16 value)
// records in ascending cell order.
var magic = [8]byte{'H', 'E', 'X', 'P', 'O', 'P', 0, 1}

const recordSize = 8 + 2

// ErrBadMagic is returned when a file is not a hex map.
var ErrBadMagic = errors.New("hexmap: not a hex map file")

// WriteBinary writes m to w.
func WriteBinary(w io.Writer, m Map) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	bw := bufio.NewWriter(enc)
	var rec [recordSize]byte

	binary.BigEndian.PutUint64(rec[:8], uint64(len(m)))
	if _, err := bw.Write(rec[:8]); err != nil {
		enc.Close()
		return err
	}
	for _, c := range m.Cells() {
		binary.BigEndian.PutUint64(rec[:8], uint64(c))
		binary.BigEndian.PutUint16(rec[8:], m[c])
		if _, err := bw.Write(rec[:]); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadBinary reads a map written by WriteBinary.
func ReadBinary(r io.Reader) (Map, error) {
	var head [len(magic)]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadMagic
		}
		return nil, err
	}
	if !bytes.Equal(head[:], magic[:]) {
		return nil, ErrBadMagic
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	var rec [recordSize]byte
	if _, err := io.ReadFull(dec, rec[:8]); err != nil {
		return nil, fmt.Errorf("hexmap: read count: %w", err)
	}
	count := binary.BigEndian.Uint64(rec[:8])

	m := make(Map, min(count, 1<<20))
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(dec, rec[:]); err != nil {
			return nil, fmt.Errorf("hexmap: read record %d of %d: %w", i, count, err)
		}
		m[h3.Cell(binary.BigEndian.Uint64(rec[:8]))] = binary.BigEndian.Uint16(rec[8:])
	}
	return m, nil
}

// SaveBinary writes m to path.
func SaveBinary(path string, m Map) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := WriteBinary(bw, m); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadBinary reads the map stored at path.
func LoadBinary(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadBinary(bufio.NewReader(f))
}
