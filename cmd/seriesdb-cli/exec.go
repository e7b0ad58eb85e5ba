package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seriesdb/seriesdb"
)

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "Execute a SQL statement",
	Long: `Execute one SQL statement against the configured database and print any
result rows. The statement uses the portable conventions: backtick-quoted
identifiers and ? placeholders, rewritten to the native dialect. Bind values
for the placeholders are supplied with --arg, in order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		bindArgs, _ := cmd.Flags().GetStringArray("arg")
		binds := make([]interface{}, len(bindArgs))
		for i, a := range bindArgs {
			binds[i] = a
		}
		return withConnection(cmd, func(conn seriesdb.Connection) error {
			cursor, err := conn.Cursor()
			if err != nil {
				return err
			}
			defer cursor.Close()

			if _, err := cursor.Execute(cmd.Context(), query, binds...); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			count := 0
			for {
				row, err := cursor.FetchOne()
				if err != nil {
					return err
				}
				if row == nil {
					break
				}
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = formatValue(v)
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
				count++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if count > 0 {
				fmt.Printf("(%d rows)\n", count)
			}
			return nil
		})
	},
}

func init() {
	execCmd.Flags().StringArray("arg", nil, "Bind value for a ? placeholder (repeatable, in order)")
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
