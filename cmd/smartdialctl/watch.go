package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/messaging"
	"github.com/feral-file/ff-smartdial/internal/providers/jetstream"
)

var watchDurable bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow index-changed notifications",
	Long: `Watch subscribes to the index-changed notifications the service publishes
on NATS JetStream after every completed sync pass and prints them until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NATS.URL == "" {
			return errors.New("nats.url is not configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		consumer := ""
		if watchDurable {
			consumer = cfg.NATS.ConsumerName
		}

		jsonAdapter := adapter.NewJSON()
		sub, err := jetstream.NewSubscriber(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			ConsumerName:   consumer,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			return err
		}
		defer sub.Close()

		return watch(ctx, sub, jsonAdapter, cmd.OutOrStdout(), jsonOutput)
	},
}

// watch prints every notification delivered by sub until ctx is canceled
func watch(ctx context.Context, sub messaging.Subscriber, jsonAdapter adapter.JSON, out io.Writer, asJSON bool) error {
	return sub.Subscribe(ctx, func(event *domain.IndexChanged) error {
		if asJSON {
			data, err := jsonAdapter.Marshal(event)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		}
		printEvent(out, event)
		return nil
	})
}

func init() {
	watchCmd.Flags().BoolVar(&watchDurable, "durable", false, "Resume from the configured durable consumer instead of only new notifications")
}

func printEvent(w io.Writer, event *domain.IndexChanged) {
	fmt.Fprintf(w, "%s  pass %s  watermark %d  +%d entries  -%d contacts  %d skipped\n",
		event.Timestamp.Format(time.RFC3339), event.PassID, event.Watermark,
		event.Stats.InsertedEntries, event.Stats.DeletedContacts, event.Stats.SkippedRows)
}
