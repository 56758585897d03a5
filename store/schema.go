package store

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// Database key schema, matching the geth rawdb layout so a chaindump store is
// readable by standard chain tooling.
var (
	headerPrefix     = []byte("h") // headerPrefix + num (uint64 big endian) + hash -> header RLP
	headerHashSuffix = []byte("n") // headerPrefix + num (uint64 big endian) + headerHashSuffix -> canonical hash

	headerNumberPrefix = []byte("H") // headerNumberPrefix + hash -> num (uint64 big endian)
	blockBodyPrefix    = []byte("b") // blockBodyPrefix + num (uint64 big endian) + hash -> body RLP

	headBlockKey  = []byte("LastBlock")
	headHeaderKey = []byte("LastHeader")
)

func encodeBlockNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

func headerKey(number uint64, hash common.Hash) []byte {
	return append(append(headerPrefix, encodeBlockNumber(number)...), hash.Bytes()...)
}

func headerHashKey(number uint64) []byte {
	return append(append(headerPrefix, encodeBlockNumber(number)...), headerHashSuffix...)
}

func headerNumberKey(hash common.Hash) []byte {
	return append(headerNumberPrefix, hash.Bytes()...)
}

func blockBodyKey(number uint64, hash common.Hash) []byte {
	return append(append(blockBodyPrefix, encodeBlockNumber(number)...), hash.Bytes()...)
}
