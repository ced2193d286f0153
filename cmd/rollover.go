package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"serve-board.com/serve-board/internal/audit"
	config "serve-board.com/serve-board/internal/configs"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/internal/services"
)

var rolloverOpts struct {
	org  string
	from string
	to   string
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Copy unfinished tasks of one week into the next",
	Long: `Copies every OPEN or IN_PROGRESS task of --from into --to for one
organization. Running it again for the same weeks creates nothing, so the
weekly scheduler may retry freely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		logger := config.NewLogger(os.Stderr, cfg.LogLevel)

		database := config.New(cfg.DatabaseDSN)
		var publisher queue.Publisher = queue.NopPublisher{}
		if cfg.RedisEventsEnabled {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			publisher = queue.NewRedisPublisher(redisClient, cfg.RedisEventsKey)
		}
		dispatch := services.NewDispatcher(publisher, audit.NewDBSink(database), logger)
		rollover := services.NewRolloverService(repository.New(database), dispatch)

		created, err := rollover.RolloverOpenTasks(cmd.Context(), rolloverOpts.org, rolloverOpts.from, rolloverOpts.to)
		if err != nil {
			return err
		}

		logger.Info("rollover finished",
			slog.String("org_id", rolloverOpts.org),
			slog.String("from_week", rolloverOpts.from),
			slog.String("to_week", rolloverOpts.to),
			slog.Int("created", created))
		fmt.Fprintf(cmd.OutOrStdout(), "%d tasks rolled over from %s to %s\n", created, rolloverOpts.from, rolloverOpts.to)
		return nil
	},
}

func init() {
	rolloverCmd.Flags().StringVar(&rolloverOpts.org, "org", "", "organization id")
	rolloverCmd.Flags().StringVar(&rolloverOpts.from, "from", "", "source week id")
	rolloverCmd.Flags().StringVar(&rolloverOpts.to, "to", "", "target week id")
	_ = rolloverCmd.MarkFlagRequired("org")
	_ = rolloverCmd.MarkFlagRequired("from")
	_ = rolloverCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(rolloverCmd)
}
