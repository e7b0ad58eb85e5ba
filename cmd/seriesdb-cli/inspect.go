package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/seriesdb/seriesdb"
)

// tablesCmd represents the tables command
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in the database",
	Long:  `Display the user tables in the configured database, excluding system catalogs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(cmd, func(conn seriesdb.Connection) error {
			tables, err := conn.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, table := range tables {
				fmt.Println(table)
			}
			return nil
		})
	},
}

// columnDoc is the YAML shape of one column in `schema -o yaml` output.
type columnDoc struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Nullable bool    `yaml:"nullable"`
	Default  *string `yaml:"default,omitempty"`
	Primary  bool    `yaml:"primary,omitempty"`
}

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [table]",
	Short: "Show the schema of a table",
	Long:  `Display the columns of a table in declared order, as a table or as YAML.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		return withConnection(cmd, func(conn seriesdb.Connection) error {
			iter, err := conn.Schema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cols, err := iter.Collect()
			if err != nil {
				return err
			}

			switch format {
			case "yaml":
				docs := make([]columnDoc, 0, len(cols))
				for _, c := range cols {
					docs = append(docs, columnDoc{
						Name:     c.Name,
						Type:     c.Type,
						Nullable: c.Nullable,
						Default:  c.Default,
						Primary:  c.IsPrimary,
					})
				}
				out, err := yaml.Marshal(map[string][]columnDoc{args[0]: docs})
				if err != nil {
					return err
				}
				fmt.Print(string(out))
			case "text":
				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "#\tNAME\tTYPE\tNULL\tDEFAULT\tKEY")
				for _, c := range cols {
					null := "NO"
					if c.Nullable {
						null = "YES"
					}
					def := ""
					if c.Default != nil {
						def = *c.Default
					}
					key := ""
					if c.IsPrimary {
						key = "PRI"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", c.Ordinal, c.Name, c.Type, null, def, key)
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown output format %q (text, yaml)", format)
			}
			return nil
		})
	},
}

// columnsCmd represents the columns command
var columnsCmd = &cobra.Command{
	Use:   "columns [table]",
	Short: "List column names of a table",
	Long:  `Display the column names of a table in declared order, one per line.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(cmd, func(conn seriesdb.Connection) error {
			names, err := conn.Columns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		})
	},
}

// variableCmd represents the variable command
var variableCmd = &cobra.Command{
	Use:   "variable [name]",
	Short: "Show a server variable",
	Long:  `Display a backend configuration variable. Unknown variables print nothing.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConnection(cmd, func(conn seriesdb.Connection) error {
			variable, err := conn.ServerVariable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if variable == nil {
				return nil
			}
			fmt.Printf("%s = %s\n", variable.Name, variable.Value)
			return nil
		})
	},
}

// withConnection opens the configured connection, runs fn, and closes.
func withConnection(cmd *cobra.Command, fn func(seriesdb.Connection) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conn, err := seriesdb.Connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func init() {
	schemaCmd.Flags().StringP("output", "o", "text", "Output format (text, yaml)")
}
