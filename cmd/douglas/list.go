package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/douglas-run/douglas/internal/cli"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available Galaxies",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}
		cli.PrintList(os.Stdout, engine)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
