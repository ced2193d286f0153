package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "serve-board.com/serve-board/internal/configs"
	"serve-board.com/serve-board/internal/membership"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load organization memberships from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		fixture, err := membership.LoadFixture(f)
		if err != nil {
			return err
		}

		cfg := config.Load()
		database := config.New(cfg.DatabaseDSN)

		written, err := fixture.Apply(cmd.Context(), database)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d memberships written from %s\n", written, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
