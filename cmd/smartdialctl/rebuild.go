package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/store"
)

var rebuildConfirmed bool

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Drop and recreate the index",
	Long: `Rebuild drops the index tables in the configured database, recreates them
and resets the sync watermark so the next pass re-reads the whole directory.
Stop the service first when the index lives in a SQLite file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !rebuildConfirmed {
			return errors.New("rebuild discards the whole index, pass --yes to confirm")
		}
		if err := cfg.Database.Validate(); err != nil {
			return err
		}

		db, err := store.OpenDB(cfg.Database.Driver, cfg.Database.DSN(), cfg.Debug)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.CloseDB(db); err != nil {
				logger.Error(err)
			}
		}()

		if err := store.NewSQLStore(db).Rebuild(cmd.Context()); err != nil {
			return fmt.Errorf("failed to rebuild index: %w", err)
		}

		logger.InfoCtx(cmd.Context(), "Index rebuilt", zap.String("driver", cfg.Database.Driver))
		fmt.Fprintln(cmd.OutOrStdout(), "index rebuilt, run `smartdialctl sync` to repopulate it")
		return nil
	},
}

func init() {
	rebuildCmd.Flags().BoolVar(&rebuildConfirmed, "yes", false, "Confirm dropping the index")
}
