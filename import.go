package chaindump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ImportOptions configures one import invocation.
type ImportOptions struct {
	// BatchSize bounds how many blocks are committed per atomic batch.
	BatchSize int

	// Executor, when set, runs every appended block before its batch commits.
	// nil selects no-state mode: headers and bodies are persisted without
	// execution or state validation.
	Executor StateExecutor

	// Progress, if set, is called after every committed batch.
	Progress ProgressFunc

	// Interrupt, if set, is polled between batches and after every BatchSize
	// skipped records.
	Interrupt *Interrupt
}

// ImportSummary reports the outcome of an import.
type ImportSummary struct {
	Imported  uint64 // records committed to the store
	Skipped   uint64 // already-persisted records skipped
	LastBlock uint64 // highest block number committed
	// NoState is true when no executor was configured, meaning the imported
	// blocks were persisted without state validation.
	NoState bool
	// Interrupted is true when cancellation stopped the import after the
	// in-flight batch committed.
	Interrupted bool
}

// Import consumes the decoded record sequence in order and commits it to the
// store in atomic batches. Records at or below the store's highest persisted
// number are skipped, which makes re-running an import over already-ingested
// data idempotent; a record more than one past the head fails with
// ErrSequenceGap. When the decoder or executor fails, the valid records
// already buffered are committed first, so the store always reflects every
// record accepted before the failure.
func Import(ctx context.Context, dec RecordDecoder, dst BlockWriter, opts ImportOptions) (*ImportSummary, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	sum := &ImportSummary{NoState: opts.Executor == nil}
	head, headHash, haveHead := dst.Head()
	if haveHead {
		slog.Info("importing blocks", "head", head, "no_state", sum.NoState)
	} else {
		slog.Info("importing blocks into empty store", "no_state", sum.NoState)
	}

	batch := make([]*types.Block, 0, opts.BatchSize)
	commit := func() error {
		if len(batch) == 0 {
			return nil
		}
		last := batch[len(batch)-1].NumberU64()
		if err := dst.WriteBlocks(batch); err != nil {
			return fmt.Errorf("commit batch ending at block %d: %w", last, err)
		}
		sum.Imported += uint64(len(batch))
		sum.LastBlock = last
		blocksImported.Add(float64(len(batch)))
		batch = batch[:0]
		if opts.Progress != nil {
			opts.Progress(sum.Imported+sum.Skipped, 0)
		}
		slog.Debug("committed batch", "through", last, "imported", sum.Imported, "skipped", sum.Skipped)
		return nil
	}
	// fail commits the records accepted before the failure, then reports it.
	fail := func(err error) (*ImportSummary, error) {
		if cerr := commit(); cerr != nil {
			return sum, cerr
		}
		return sum, err
	}

	for {
		block, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}

		n := block.NumberU64()
		switch {
		case haveHead && n <= head:
			sum.Skipped++
			blocksSkipped.Inc()
			// A long run of duplicates forms no batches, so cancellation is
			// also polled every BatchSize skipped records.
			if sum.Skipped%uint64(opts.BatchSize) == 0 {
				if cerr := commit(); cerr != nil {
					return sum, cerr
				}
				if ctx.Err() != nil || opts.Interrupt.Interrupted() {
					sum.Interrupted = true
					slog.Warn("import interrupted", "last_block", sum.LastBlock,
						"imported", sum.Imported, "skipped", sum.Skipped)
					return sum, nil
				}
			}
			continue
		case haveHead && n > head+1:
			return fail(fmt.Errorf("%w: store head is %d, stream continues at %d", ErrSequenceGap, head, n))
		case haveHead && headHash != (common.Hash{}) && block.ParentHash() != headHash:
			return fail(fmt.Errorf("%w: block %d parent %s does not extend %s",
				ErrSequenceGap, n, block.ParentHash(), headHash))
		}

		if opts.Executor != nil {
			if err := opts.Executor.Execute(block); err != nil {
				return fail(fmt.Errorf("%w: block %d: %v", ErrExecutionRejected, n, err))
			}
		}

		batch = append(batch, block)
		head, headHash, haveHead = n, block.Hash(), true

		if len(batch) >= opts.BatchSize {
			if err := commit(); err != nil {
				return sum, err
			}
			if ctx.Err() != nil || opts.Interrupt.Interrupted() {
				sum.Interrupted = true
				slog.Warn("import interrupted", "last_block", sum.LastBlock,
					"imported", sum.Imported, "skipped", sum.Skipped)
				return sum, nil
			}
		}
	}

	if err := commit(); err != nil {
		return sum, err
	}
	return sum, nil
}
