package rlpstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/luxfi/chaindump"
)

// maxRecordLen bounds the declared length of a single record. A larger
// declaration can only come from garbage bytes and would otherwise drive an
// unbounded allocation.
const maxRecordLen = 1 << 30 // 1 GiB

var errNeedMore = errors.New("need more bytes")

// Decoder turns the chunked byte stream into a lazy sequence of blocks. Each
// record is self-describing through its RLP list header, so records spanning
// arbitrarily many chunks reassemble without any external framing.
type Decoder struct {
	src *Reader
	buf []byte // unconsumed tail bytes from previous chunks
}

// NewDecoder wraps a chunked reader.
func NewDecoder(src *Reader) *Decoder {
	return &Decoder{src: src}
}

// Next decodes the next block, pulling chunks as needed. It returns io.EOF at
// a clean end of stream, ErrTruncatedStream when the stream ends mid-record,
// and ErrCorruptStream when the buffer front is not a well-formed record.
func (d *Decoder) Next() (*types.Block, error) {
	for {
		size, err := recordSize(d.buf)
		if err == nil && uint64(len(d.buf)) >= size {
			block := new(types.Block)
			if err := rlp.DecodeBytes(d.buf[:size], block); err != nil {
				return nil, fmt.Errorf("%w: %v", chaindump.ErrCorruptStream, err)
			}
			d.buf = d.buf[size:]
			return block, nil
		}
		if err != nil && !errors.Is(err, errNeedMore) {
			return nil, err
		}

		chunk, rerr := d.src.ReadChunk()
		if rerr == io.EOF {
			if len(d.buf) == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %d trailing bytes of an incomplete record",
				chaindump.ErrTruncatedStream, len(d.buf))
		}
		if rerr != nil {
			return nil, rerr
		}
		d.buf = append(d.buf, chunk...)
	}
}

// recordSize parses the RLP list header at the front of buf and returns the
// full record length including the header itself. It returns errNeedMore when
// buf is too short to even hold the header.
func recordSize(buf []byte) (uint64, error) {
	if len(buf) == 0 {
		return 0, errNeedMore
	}
	kind := buf[0]
	switch {
	case kind < 0xc0:
		return 0, fmt.Errorf("%w: record does not start with an RLP list (prefix 0x%02x)",
			chaindump.ErrCorruptStream, kind)
	case kind < 0xf8:
		return 1 + uint64(kind-0xc0), nil
	default:
		lenLen := int(kind - 0xf7)
		if len(buf) < 1+lenLen {
			return 0, errNeedMore
		}
		var size uint64
		for _, b := range buf[1 : 1+lenLen] {
			size = size<<8 | uint64(b)
		}
		if size > maxRecordLen {
			return 0, fmt.Errorf("%w: record declares %d bytes", chaindump.ErrCorruptStream, size)
		}
		return 1 + uint64(lenLen) + size, nil
	}
}

// Encoder writes blocks as canonical length-prefixed RLP records, in the order
// received. It is stateless aside from that sequencing.
type Encoder struct {
	dst *Writer
}

// NewEncoder wraps a chunked writer.
func NewEncoder(dst *Writer) *Encoder {
	return &Encoder{dst: dst}
}

// Encode appends one block record to the sink and returns its encoded size.
func (e *Encoder) Encode(block *types.Block) (int, error) {
	raw, err := rlp.EncodeToBytes(block)
	if err != nil {
		return 0, fmt.Errorf("encode block %d: %w", block.NumberU64(), err)
	}
	if err := e.dst.WriteChunk(raw); err != nil {
		return 0, err
	}
	return len(raw), nil
}

// Flush pushes buffered bytes down to the underlying file.
func (e *Encoder) Flush() error {
	return e.dst.Flush()
}
