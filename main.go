package main

import (
	"os"

	"bikereg/config"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "bikereg",
		Short: "Bike warranty registration service",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
		},
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newSeedBikesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
