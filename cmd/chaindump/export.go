package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/luxfi/chaindump"
	"github.com/luxfi/chaindump/rlpstream"
	"github.com/luxfi/chaindump/store"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a block range to an RLP file (gzip when the path ends in .gz)",
		RunE:  runExport,
	}
	cmd.Flags().String("output", "", "output file path")
	cmd.Flags().Uint64("start", 0, "first block number (inclusive)")
	cmd.Flags().Int64("end", -1, "last block number (inclusive; -1 means latest)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	v, err := bindFlags(cmd)
	if err != nil {
		return err
	}
	dbPath := v.GetString("db")
	if dbPath == "" {
		return errors.New("--db is required")
	}
	output := v.GetString("output")

	st, err := store.Open(dbPath, store.Options{
		Backend:  v.GetString("db-backend"),
		ReadOnly: true,
	})
	if err != nil {
		return errors.Wrap(err, "open block store")
	}
	defer st.Close()

	w, err := rlpstream.CreateWriter(output, v.GetInt("chunk-len"))
	if err != nil {
		return err
	}

	intr := new(chaindump.Interrupt)
	stop := watchInterrupt(intr)
	defer stop()

	var bar *progressbar.ProgressBar
	opts := chaindump.ExportOptions{
		Start:     v.GetUint64("start"),
		BatchSize: v.GetInt("batch-size"),
		Interrupt: intr,
		Progress: func(done, total uint64) {
			if bar == nil {
				bar = newBar(int64(total), "Exporting blocks...")
			}
			_ = bar.Set64(int64(done))
		},
	}
	if end := v.GetInt64("end"); end >= 0 {
		e := uint64(end)
		opts.End = &e
	}

	sum, err := chaindump.Export(cmd.Context(), st, rlpstream.NewEncoder(w), opts)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		slog.Error("export failed, discard the output file", "output", output, "error", err)
		return err
	}

	if sum.Interrupted {
		slog.Warn("export stopped early",
			"last_block", sum.LastBlock, "blocks", sum.Blocks,
			"resume_from", sum.LastBlock+1)
		return nil
	}
	slog.Info("export complete",
		"chain", v.GetString("chain"), "blocks", sum.Blocks,
		"bytes", sum.Bytes, "output", output)
	return nil
}

func newBar(total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		total,
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
