package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/motocare/motocare/internal/config"
)

var resetCmdFlags struct {
	Yes bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database and start fresh",
	Long:  `This command deletes the MotoCare database file. All accounts, vehicles, service records and schedules are lost.`,
	Run:   reset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetCmdFlags.Yes, "yes", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(resetCmd)
}

func reset(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !resetCmdFlags.Yes {
		log.Fatal("refusing to delete the database without --yes")
	}

	if err := os.Remove(cfg.Database.Path); err != nil {
		if os.IsNotExist(err) {
			log.Info("no database file to remove", "path", cfg.Database.Path)
			return
		}
		log.Fatalf("failed to remove database: %v", err)
	}

	log.Info("database removed", "path", cfg.Database.Path)
}
