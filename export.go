package chaindump

import (
	"context"
	"fmt"
	"log/slog"
)

// ExportOptions configures one export invocation.
type ExportOptions struct {
	// Start is the first block number to export. Defaults to 0.
	Start uint64

	// End is the last block number to export, inclusive. nil means the
	// store's latest block at resolution time.
	End *uint64

	// BatchSize bounds how many blocks are read per batch window.
	BatchSize int

	// Progress, if set, is called after every batch.
	Progress ProgressFunc

	// Interrupt, if set, is polled between batches.
	Interrupt *Interrupt
}

// ExportSummary reports the outcome of an export.
type ExportSummary struct {
	Blocks    uint64 // records written to the sink
	Bytes     uint64 // encoded bytes handed to the sink
	LastBlock uint64 // highest block number written
	Range     Range  // the resolved range
	// Interrupted is true when cancellation stopped the export after a batch
	// boundary; LastBlock tells the caller where to resume from.
	Interrupted bool
}

// Export walks the resolved range in batch windows, reads every block in order
// from the store, and streams the encoded records to the sink. It never writes
// to the store. A block absent inside the range fails with ErrBlockMissing.
// The sink is flushed before returning on every successful path, including a
// cooperative interruption, which is reported in the summary rather than as an
// error.
func Export(ctx context.Context, src BlockReader, enc RecordEncoder, opts ExportOptions) (*ExportSummary, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	sum := &ExportSummary{}
	rng, ok, err := ResolveRange(src, opts.Start, opts.End)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sum, nil
	}
	sum.Range = rng
	total := rng.Count()
	slog.Info("exporting blocks", "start", rng.Start, "end", rng.End, "total", total)

	for lo := rng.Start; ; {
		hi := lo + uint64(opts.BatchSize) - 1
		if hi > rng.End || hi < lo {
			hi = rng.End
		}

		for n := lo; n <= hi; n++ {
			block, err := src.Block(n)
			if err != nil {
				return sum, err
			}
			written, err := enc.Encode(block)
			if err != nil {
				return sum, fmt.Errorf("write block %d: %w", n, err)
			}
			sum.Blocks++
			sum.Bytes += uint64(written)
			sum.LastBlock = n
			blocksExported.Inc()
			bytesExported.Add(float64(written))
		}

		if opts.Progress != nil {
			opts.Progress(sum.Blocks, total)
		}
		slog.Debug("exported batch", "through", hi, "done", sum.Blocks, "total", total)

		if hi == rng.End {
			break
		}
		if ctx.Err() != nil || opts.Interrupt.Interrupted() {
			sum.Interrupted = true
			slog.Warn("export interrupted", "last_block", sum.LastBlock, "done", sum.Blocks, "total", total)
			break
		}
		lo = hi + 1
	}

	if err := enc.Flush(); err != nil {
		return sum, fmt.Errorf("flush sink: %w", err)
	}
	return sum, nil
}
