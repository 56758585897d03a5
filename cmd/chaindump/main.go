// Command chaindump exports blocks from a node database to an RLP-encoded
// file and imports such files back, gzip-compressed when the path ends in .gz.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luxfi/chaindump"
	"github.com/luxfi/chaindump/rlpstream"
	"github.com/luxfi/chaindump/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCommand().Execute(); err != nil {
		slog.Error("chaindump failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "chaindump",
		Short:         "Bulk block export/import between a node database and flat RLP files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("db", "", "path to the block database")
	pf.String("db-backend", store.BackendPebble, "database backend (pebble, leveldb, badger)")
	pf.String("chain", "", "chain identity, recorded in the run summary")
	pf.Int("batch-size", chaindump.DefaultBatchSize, "blocks per batch window / atomic commit")
	pf.Int("chunk-len", rlpstream.DefaultChunkLen, "I/O chunk length in bytes")

	root.AddCommand(newExportCommand(), newImportCommand())
	return root
}

// bindFlags exposes the command's flags through viper so every option can also
// be supplied as a CHAINDUMP_* environment variable.
func bindFlags(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("CHAINDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, err
	}
	return v, nil
}

// watchInterrupt raises the cancellation flag on SIGINT/SIGTERM. The
// coordinators observe it at the next batch boundary.
func watchInterrupt(intr *chaindump.Interrupt) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-ch; ok {
			slog.Warn("interrupt received, stopping at the next batch boundary")
			intr.Signal()
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
