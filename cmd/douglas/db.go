package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/douglas-run/douglas/internal/cli"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect and maintain Galaxy databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		cli.PrintStores(os.Stdout, settings.DataDir)
		return nil
	},
}

var dbShowCmd = &cobra.Command{
	Use:   "show <galaxy-name>",
	Short: "Print the persisted entries of a Galaxy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}
		return cli.PrintRecords(cmd.Context(), os.Stdout, engine, args[0])
	},
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete <galaxy-name> <id>...",
	Short: "Delete entries from a Galaxy's database",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}

		var ids []int64
		for _, raw := range args[1:] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", raw)
			}
			ids = append(ids, id)
		}

		n, err := engine.DeleteRecords(cmd.Context(), args[0], ids)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d entries\n", n)
		return nil
	},
}

var dbResetCmd = &cobra.Command{
	Use:   "reset <galaxy-name>",
	Short: "Delete a Galaxy's entire store file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, err := buildEngine(settings, logger)
		if err != nil {
			return err
		}
		if err := engine.ResetStore(args[0]); err != nil {
			return err
		}
		fmt.Printf("store for %s removed\n", args[0])
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbShowCmd, dbDeleteCmd, dbResetCmd)
	rootCmd.AddCommand(dbCmd)
}
