package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seriesdb/seriesdb"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the configured database",
	Long:  `Create the database named by the active profile or flags. Fails if it already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := seriesdb.Create(cmd.Context(), cfg); err != nil {
			return err
		}
		fmt.Printf("Created database %s (%s)\n", cfg.DatabaseName, cfg.Driver)
		return nil
	},
}

// dropCmd represents the drop command
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the configured database",
	Long:  `Delete the database named by the active profile or flags. Fails if it does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Drop database %s (%s)? [y/N]: ", cfg.DatabaseName, cfg.Driver)
			var answer string
			fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := seriesdb.Drop(cmd.Context(), cfg); err != nil {
			return err
		}
		fmt.Printf("Dropped database %s (%s)\n", cfg.DatabaseName, cfg.Driver)
		return nil
	},
}

// backendsCmd represents the backends command
var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List supported backends",
	Long:  `Display the backend drivers registered in this build.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range seriesdb.Backends() {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	dropCmd.Flags().Bool("force", false, "Drop without confirmation")
}
