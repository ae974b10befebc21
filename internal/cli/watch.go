package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syncflow/syncflow/internal/mq"
)

// NewWatchCmd создаёт команду для наблюдения за событиями выполнения.
// Подключается к RabbitMQ напрямую и печатает события по мере поступления.
func NewWatchCmd(outputFn func() *Output) *cobra.Command {
	var mqURL string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream run events from the message queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			if mqURL == "" {
				mqURL = mq.DefaultURL()
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelWarn,
			}))

			conn, err := mq.NewConnection(mqURL, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to message queue: %w", err)
			}
			defer conn.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := mq.SetupTopology(ctx, conn); err != nil {
				return fmt.Errorf("failed to setup topology: %w", err)
			}

			consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
				Queue:   string(mq.QueueRunEvents),
				Handler: watchHandler(out),
			})

			out.Success("Watching run events (Ctrl+C to stop)")
			err = consumer.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&mqURL, "mq-url", "", "RabbitMQ URL (default: $MQ_URL)")

	return cmd
}

func watchHandler(out *Output) mq.Handler {
	return func(ctx context.Context, msg *mq.Delivery) error {
		switch msg.Message.Type {
		case mq.MessageTypeRunStarted:
			p, err := mq.ParsePayload[mq.RunStartedPayload](&msg.Message)
			if err != nil {
				return err
			}
			out.Stream(fmt.Sprintf("[%s] run started: %s (%d nodes)",
				msg.Message.Timestamp.Format("15:04:05"), p.RunID, p.TotalNodes), msg.Message)

		case mq.MessageTypeNodeFinished:
			p, err := mq.ParsePayload[mq.NodeFinishedPayload](&msg.Message)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("[%s]   node %s: %s (%dms)",
				msg.Message.Timestamp.Format("15:04:05"), p.NodeID, p.State, p.DurationMS)
			if p.Error != "" {
				line += ": " + p.Error
			}
			out.Stream(line, msg.Message)

		case mq.MessageTypeRunFinished:
			p, err := mq.ParsePayload[mq.RunFinishedPayload](&msg.Message)
			if err != nil {
				return err
			}
			out.Stream(fmt.Sprintf("[%s] run finished: %s success=%t completed=%d failed=%d skipped=%d (%dms)",
				msg.Message.Timestamp.Format("15:04:05"), p.RunID, p.Success,
				p.CompletedNodes, p.FailedNodes, p.SkippedNodes, p.DurationMS), msg.Message)

		default:
			out.Stream(fmt.Sprintf("[%s] %s", msg.Message.Timestamp.Format("15:04:05"), msg.Message.Type), msg.Message)
		}

		return msg.Ack()
	}
}
