package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wishkeeper/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wishkeeper",
		Short: "Wishkeeper wishlist server",
		Long:  `Wishkeeper serves a personal gift wishlist: an owner page for adding items and a public page where gift-givers can reserve them.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
