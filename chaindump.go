// Package chaindump moves bulk block data between a node's number-indexed
// block store and flat files of consecutively RLP-encoded blocks, in either
// direction. Export walks a resolved block range in batches and streams
// canonical block records to a sink; import consumes a decoded record stream,
// skips already-persisted blocks, and commits the rest in atomic batches.
//
// The store and the state executor are collaborators behind interfaces so a
// node database, a mock, or nothing at all (no-state import) can be plugged in.
package chaindump

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DefaultBatchSize is the number of blocks read or committed per batch when
// the caller does not configure one.
const DefaultBatchSize = 1000

// HeadReader reports the highest persisted block of a store.
// ok is false when the store holds no blocks at all.
type HeadReader interface {
	Head() (number uint64, hash common.Hash, ok bool)
}

// BlockReader is the read side of a block store, as consumed by Export.
// Block returns an error wrapping ErrBlockMissing when the number is absent.
type BlockReader interface {
	HeadReader
	Block(number uint64) (*types.Block, error)
}

// BlockWriter is the write side of a block store, as consumed by Import.
// WriteBlocks commits the given blocks as a single atomic unit and advances
// the head pointer; either every block becomes durably visible or none do.
type BlockWriter interface {
	HeadReader
	WriteBlocks(blocks []*types.Block) error
}

// RecordEncoder serializes blocks to a byte sink in the order received and
// reports the encoded size of each record.
type RecordEncoder interface {
	Encode(block *types.Block) (int, error)
	Flush() error
}

// RecordDecoder yields the next block from a byte stream, returning io.EOF
// at a clean end of the sequence. The sequence is lazy and non-restartable.
type RecordDecoder interface {
	Next() (*types.Block, error)
}
