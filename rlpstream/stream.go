// Package rlpstream reads and writes flat files of consecutively RLP-encoded
// blocks in fixed-size chunks, with transparent gzip framing selected by the
// ".gz" path suffix. Chunk length only affects I/O granularity and memory
// footprint; the codec decodes identically for any chunk length down to a
// single byte.
package rlpstream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/luxfi/chaindump"
)

// DefaultChunkLen is the chunk length used when the caller passes zero.
const DefaultChunkLen = 1 << 20 // 1 MiB

// compressedSuffix selects gzip framing. Selection is by extension only,
// never by content sniffing.
const compressedSuffix = ".gz"

// Reader pulls a file's bytes in chunks, decompressing when the path carries
// the gzip suffix.
type Reader struct {
	file *os.File
	gz   *gzip.Reader
	src  io.Reader
	buf  []byte
}

// OpenReader opens path for chunked reading. chunkLen <= 0 selects
// DefaultChunkLen.
func OpenReader(path string, chunkLen int) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, mapOpenError(path, err)
	}
	if chunkLen <= 0 {
		chunkLen = DefaultChunkLen
	}
	r := &Reader{file: file, buf: make([]byte, chunkLen)}
	if strings.HasSuffix(path, compressedSuffix) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: %s: %v", chaindump.ErrCorruptStream, path, err)
		}
		r.gz, r.src = gz, gz
	} else {
		r.src = file
	}
	return r, nil
}

// ReadChunk returns the next chunk of at most the configured length, or io.EOF
// at end of stream. The returned slice is only valid until the next call.
func (r *Reader) ReadChunk() ([]byte, error) {
	for {
		n, err := r.src.Read(r.buf)
		if n > 0 {
			return r.buf[:n], nil
		}
		if err == nil {
			continue
		}
		if err == io.EOF {
			return nil, io.EOF
		}
		if r.gz != nil {
			// Anything the decompressor chokes on, including an unexpected
			// end of the gzip frame, is stream corruption.
			return nil, fmt.Errorf("%w: %v", chaindump.ErrCorruptStream, err)
		}
		return nil, err
	}
}

// Close releases the file handle. Safe on every exit path.
func (r *Reader) Close() error {
	var gzErr error
	if r.gz != nil {
		gzErr = r.gz.Close()
	}
	if err := r.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// Writer pushes bytes to a file through a chunk-sized buffer, compressing when
// the path carries the gzip suffix.
type Writer struct {
	file *os.File
	bw   *bufio.Writer
	gz   *gzip.Writer
	dst  io.Writer
}

// CreateWriter creates (or truncates) path for chunked writing. chunkLen <= 0
// selects DefaultChunkLen.
func CreateWriter(path string, chunkLen int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, mapOpenError(path, err)
	}
	if chunkLen <= 0 {
		chunkLen = DefaultChunkLen
	}
	w := &Writer{file: file, bw: bufio.NewWriterSize(file, chunkLen)}
	if strings.HasSuffix(path, compressedSuffix) {
		w.gz = gzip.NewWriter(w.bw)
		w.dst = w.gz
	} else {
		w.dst = w.bw
	}
	return w, nil
}

// WriteChunk appends p to the stream.
func (w *Writer) WriteChunk(p []byte) error {
	_, err := w.dst.Write(p)
	return err
}

// Flush pushes buffered bytes down to the file.
func (w *Writer) Flush() error {
	if w.gz != nil {
		if err := w.gz.Flush(); err != nil {
			return err
		}
	}
	return w.bw.Flush()
}

// Close finalizes the gzip frame if any, flushes, and releases the file
// handle. The file is closed even when an earlier stage fails.
func (w *Writer) Close() error {
	var err error
	if w.gz != nil {
		err = w.gz.Close()
	}
	if ferr := w.bw.Flush(); err == nil {
		err = ferr
	}
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func mapOpenError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", chaindump.ErrNotFound, path)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", chaindump.ErrAccessDenied, path)
	default:
		return err
	}
}
