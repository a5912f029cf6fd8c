package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <galaxy-name> [input...]",
	Short: "Run a single Galaxy and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}

		name := args[0]
		input := strings.Join(args[1:], " ")

		out, err := engine.Run(cmd.Context(), name, input)
		if err != nil {
			return err
		}

		fmt.Println(out.Text)
		if out.PersistedID != nil {
			fmt.Printf("saved as entry %d\n", *out.PersistedID)
		}
		if out.Warning != "" {
			fmt.Println("warning:", out.Warning)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
