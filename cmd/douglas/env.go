package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/douglas-run/douglas/internal/cli"
	"github.com/douglas-run/douglas/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show credential and model configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		cli.PrintEnv(os.Stdout, settings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
