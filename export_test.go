package chaindump_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/chaindump"
	"github.com/luxfi/chaindump/rlpstream"
	"github.com/luxfi/chaindump/store"
)

func TestExportFixedWindow(t *testing.T) {
	const (
		start = uint64(8593921)
		end   = uint64(8593999)
	)
	st := newMemStore(t)
	chain := makeChain(start, int(end-start+1), "window")
	require.NoError(t, st.WriteBlocks(chain))

	path := filepath.Join(t.TempDir(), "window.rlp")
	sum := exportToFile(t, st, path, chaindump.ExportOptions{Start: start, End: uintp(end)})

	require.Equal(t, uint64(79), sum.Blocks)
	require.Equal(t, end, sum.LastBlock)
	require.Equal(t, chaindump.Range{Start: start, End: end}, sum.Range)

	got := decodeFile(t, path, 0)
	require.Len(t, got, 79)
	for i, b := range got {
		require.Equal(t, start+uint64(i), b.NumberU64())
		require.Equal(t, chain[i].Hash(), b.Hash())
	}
}

func TestExportEndBeyondLatest(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.WriteBlocks(makeChain(0, 10, "short")))

	w, err := rlpstream.CreateWriter(filepath.Join(t.TempDir(), "out.rlp"), 0)
	require.NoError(t, err)
	defer w.Close()

	_, err = chaindump.Export(context.Background(), st, rlpstream.NewEncoder(w),
		chaindump.ExportOptions{End: uintp(10)})
	require.ErrorIs(t, err, chaindump.ErrRangeUnavailable)
}

func TestExportEmptyRange(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.WriteBlocks(makeChain(0, 5, "small")))

	path := filepath.Join(t.TempDir(), "empty.rlp")
	sum := exportToFile(t, st, path, chaindump.ExportOptions{Start: 99})
	require.Zero(t, sum.Blocks)
	require.Empty(t, decodeFile(t, path, 0))
}

// gapSource hides one block from an otherwise complete store.
type gapSource struct {
	*store.Store
	missing uint64
}

func (g gapSource) Block(number uint64) (*types.Block, error) {
	if number == g.missing {
		return nil, fmt.Errorf("block %d: %w", number, chaindump.ErrBlockMissing)
	}
	return g.Store.Block(number)
}

func TestExportMissingBlockInsideRange(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.WriteBlocks(makeChain(0, 10, "gap")))

	w, err := rlpstream.CreateWriter(filepath.Join(t.TempDir(), "gap.rlp"), 0)
	require.NoError(t, err)
	defer w.Close()

	sum, err := chaindump.Export(context.Background(), gapSource{Store: st, missing: 4},
		rlpstream.NewEncoder(w), chaindump.ExportOptions{})
	require.ErrorIs(t, err, chaindump.ErrBlockMissing)
	require.Equal(t, uint64(4), sum.Blocks)
	require.Equal(t, uint64(3), sum.LastBlock)
}

func TestExportInterrupted(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.WriteBlocks(makeChain(0, 10, "intr")))

	intr := new(chaindump.Interrupt)
	intr.Signal()

	path := filepath.Join(t.TempDir(), "partial.rlp")
	sum := exportToFile(t, st, path, chaindump.ExportOptions{BatchSize: 3, Interrupt: intr})

	require.True(t, sum.Interrupted)
	require.Equal(t, uint64(3), sum.Blocks)
	require.Equal(t, uint64(2), sum.LastBlock)
	require.Len(t, decodeFile(t, path, 0), 3)
}

func TestExportProgressReported(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.WriteBlocks(makeChain(0, 10, "progress")))

	var calls []uint64
	var total uint64
	path := filepath.Join(t.TempDir(), "progress.rlp")
	exportToFile(t, st, path, chaindump.ExportOptions{
		BatchSize: 4,
		Progress: func(done, tot uint64) {
			calls = append(calls, done)
			total = tot
		},
	})

	require.Equal(t, []uint64{4, 8, 10}, calls)
	require.Equal(t, uint64(10), total)
}
