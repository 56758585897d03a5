package chaindump_test

import (
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/chaindump"
	"github.com/luxfi/chaindump/rlpstream"
	"github.com/luxfi/chaindump/store"
)

// makeChain builds n linked blocks starting at the given number. The extra
// seed varies the headers so two chains with the same numbers have different
// hashes.
func makeChain(start uint64, n int, seed string) []*types.Block {
	blocks := make([]*types.Block, 0, n)
	parent := common.Hash{}
	for i := 0; i < n; i++ {
		num := start + uint64(i)
		header := &types.Header{
			ParentHash:  parent,
			UncleHash:   types.EmptyUncleHash,
			Root:        types.EmptyRootHash,
			TxHash:      types.EmptyTxsHash,
			ReceiptHash: types.EmptyReceiptsHash,
			Number:      new(big.Int).SetUint64(num),
			Difficulty:  big.NewInt(1),
			GasLimit:    8_000_000,
			Time:        1_700_000_000 + num,
			Extra:       []byte(seed),
		}
		block := types.NewBlockWithHeader(header)
		blocks = append(blocks, block)
		parent = block.Hash()
	}
	return blocks
}

func newMemStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("", store.Options{Backend: store.BackendMemory})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, st.Close()) })
	return st
}

// exportToFile exports src to path and fails the test on any error.
func exportToFile(t *testing.T, src chaindump.BlockReader, path string, opts chaindump.ExportOptions) *chaindump.ExportSummary {
	t.Helper()
	w, err := rlpstream.CreateWriter(path, 0)
	require.NoError(t, err)
	sum, err := chaindump.Export(context.Background(), src, rlpstream.NewEncoder(w), opts)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return sum
}

// encodeToFile writes exactly the given blocks to path, bypassing any store.
func encodeToFile(t *testing.T, path string, blocks []*types.Block) {
	t.Helper()
	w, err := rlpstream.CreateWriter(path, 0)
	require.NoError(t, err)
	enc := rlpstream.NewEncoder(w)
	for _, b := range blocks {
		_, err := enc.Encode(b)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

// importFile runs an import of path into dst.
func importFile(t *testing.T, path string, dst chaindump.BlockWriter, opts chaindump.ImportOptions) (*chaindump.ImportSummary, error) {
	t.Helper()
	r, err := rlpstream.OpenReader(path, 0)
	require.NoError(t, err)
	defer r.Close()
	return chaindump.Import(context.Background(), rlpstream.NewDecoder(r), dst, opts)
}

// decodeFile reads every block record from path.
func decodeFile(t *testing.T, path string, chunkLen int) []*types.Block {
	t.Helper()
	r, err := rlpstream.OpenReader(path, chunkLen)
	require.NoError(t, err)
	defer r.Close()

	var blocks []*types.Block
	dec := rlpstream.NewDecoder(r)
	for {
		b, err := dec.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return blocks
		}
		blocks = append(blocks, b)
	}
}
