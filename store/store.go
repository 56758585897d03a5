// Package store persists number-indexed blocks in an embedded key-value
// database. One geth-style key schema is shared by all backends; batch
// atomicity is the backend's write batch, so a crash mid-import leaves the
// store at the last fully committed batch boundary.
package store

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/luxfi/chaindump"
)

// Supported backends.
const (
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
	BackendBadger  = "badger"
	BackendMemory  = "memory"
)

// errKeyNotFound is the backend-neutral absent-key sentinel.
var errKeyNotFound = errors.New("key not found")

// ErrReadOnly is returned by WriteBlocks on a store opened read-only.
var ErrReadOnly = errors.New("store is read-only")

// Options configures Open.
type Options struct {
	// Backend selects the key-value engine. Empty means pebble.
	Backend string

	// ReadOnly opens the database without write access. Export runs with a
	// read-only store so it can share the database with other readers.
	ReadOnly bool
}

// keyValueStore is the minimal surface the schema layer needs from a backend.
type keyValueStore interface {
	get(key []byte) ([]byte, error) // errKeyNotFound when absent
	newBatch() keyValueBatch
	close() error
}

// keyValueBatch buffers writes and commits them as one atomic unit.
type keyValueBatch interface {
	put(key, value []byte) error
	write() error
}

// Store is a number-indexed block store over an embedded key-value database.
// It implements chaindump.BlockReader and chaindump.BlockWriter.
type Store struct {
	kv       keyValueStore
	readOnly bool
}

// Open opens (creating if needed, unless read-only) the block store at path.
func Open(path string, opts Options) (*Store, error) {
	var (
		kv  keyValueStore
		err error
	)
	switch opts.Backend {
	case BackendPebble, "":
		kv, err = openPebble(path, opts.ReadOnly)
	case BackendLevelDB:
		kv, err = openLevelDB(path, opts.ReadOnly)
	case BackendBadger:
		kv, err = openBadger(path, opts.ReadOnly)
	case BackendMemory:
		kv = newMemoryKV()
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return &Store{kv: kv, readOnly: opts.ReadOnly}, nil
}

// Head returns the highest persisted block number and its hash. ok is false
// when the store holds no blocks.
func (s *Store) Head() (uint64, common.Hash, bool) {
	hashBytes, err := s.kv.get(headBlockKey)
	if err != nil || len(hashBytes) != common.HashLength {
		return 0, common.Hash{}, false
	}
	hash := common.BytesToHash(hashBytes)
	numBytes, err := s.kv.get(headerNumberKey(hash))
	if err != nil || len(numBytes) != 8 {
		return 0, common.Hash{}, false
	}
	return decodeBlockNumber(numBytes), hash, true
}

// Block reads and assembles the block at the given number. An absent block
// returns an error wrapping chaindump.ErrBlockMissing.
func (s *Store) Block(number uint64) (*types.Block, error) {
	hashBytes, err := s.kv.get(headerHashKey(number))
	if errors.Is(err, errKeyNotFound) {
		return nil, fmt.Errorf("block %d: %w", number, chaindump.ErrBlockMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("read canonical hash for block %d: %w", number, err)
	}
	hash := common.BytesToHash(hashBytes)

	headerBytes, err := s.kv.get(headerKey(number, hash))
	if err != nil {
		return nil, fmt.Errorf("read header for block %d: %w", number, chaindump.ErrBlockMissing)
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(headerBytes, header); err != nil {
		return nil, fmt.Errorf("decode header for block %d: %w", number, err)
	}

	bodyBytes, err := s.kv.get(blockBodyKey(number, hash))
	if err != nil {
		return nil, fmt.Errorf("read body for block %d: %w", number, chaindump.ErrBlockMissing)
	}
	body := new(types.Body)
	if err := rlp.DecodeBytes(bodyBytes, body); err != nil {
		return nil, fmt.Errorf("decode body for block %d: %w", number, err)
	}

	return types.NewBlockWithHeader(header).WithBody(*body), nil
}

// WriteBlocks persists the given blocks and advances the head pointer to the
// last one, all in a single atomic batch.
func (s *Store) WriteBlocks(blocks []*types.Block) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if len(blocks) == 0 {
		return nil
	}

	batch := s.kv.newBatch()
	for _, block := range blocks {
		number, hash := block.NumberU64(), block.Hash()

		headerBytes, err := rlp.EncodeToBytes(block.Header())
		if err != nil {
			return fmt.Errorf("encode header for block %d: %w", number, err)
		}
		bodyBytes, err := rlp.EncodeToBytes(block.Body())
		if err != nil {
			return fmt.Errorf("encode body for block %d: %w", number, err)
		}

		if err := batch.put(headerKey(number, hash), headerBytes); err != nil {
			return err
		}
		if err := batch.put(blockBodyKey(number, hash), bodyBytes); err != nil {
			return err
		}
		if err := batch.put(headerHashKey(number), hash.Bytes()); err != nil {
			return err
		}
		if err := batch.put(headerNumberKey(hash), encodeBlockNumber(number)); err != nil {
			return err
		}
	}

	headHash := blocks[len(blocks)-1].Hash()
	if err := batch.put(headBlockKey, headHash.Bytes()); err != nil {
		return err
	}
	if err := batch.put(headHeaderKey, headHash.Bytes()); err != nil {
		return err
	}

	return batch.write()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.kv.close()
}

func decodeBlockNumber(enc []byte) uint64 {
	var n uint64
	for _, b := range enc {
		n = n<<8 | uint64(b)
	}
	return n
}
