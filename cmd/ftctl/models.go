package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addPrivate bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registry entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		for _, entry := range reg.MergedView() {
			visibility := "private"
			if entry.Public {
				visibility = "public"
			}
			marker := ""
			if reg.IsBuiltin(entry.Alias) {
				marker = " (builtin)"
			}
			fmt.Printf("%s\t%s\t%s%s\n", entry.Alias, entry.ID, visibility, marker)
		}
		return nil
	},
}

var modelsAddCmd = &cobra.Command{
	Use:   "add <alias> <model-id>",
	Short: "Add or replace a registry entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		if err := reg.Upsert(args[0], args[1], !addPrivate); err != nil {
			return err
		}
		fmt.Printf("saved %s -> %s\n", args[0], args[1])
		return nil
	},
}

var modelsRemoveCmd = &cobra.Command{
	Use:   "remove <alias>",
	Short: "Remove a registry entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		if err := reg.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", args[0])
		return nil
	},
}

func init() {
	modelsAddCmd.Flags().BoolVar(&addPrivate, "private", false, "hide the entry from the public surface")
	modelsCmd.AddCommand(modelsAddCmd, modelsRemoveCmd)
	rootCmd.AddCommand(modelsCmd)
}
