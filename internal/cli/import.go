package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brimesh123/search-engine/internal/sheet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load an .xlsx or .csv BOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			name := filepath.Base(args[0])
			rows, err := sheet.Parse(name, f)
			if err != nil {
				return err
			}

			resp, err := a.ingestionService().Ingest(cmd.Context(), name, rows)
			if err != nil {
				return fmt.Errorf("import rolled back: %w", err)
			}

			out := cmd.OutOrStdout()
			green := color.New(color.FgGreen, color.Bold)
			yellow := color.New(color.FgYellow, color.Bold)
			red := color.New(color.FgRed)

			green.Fprintf(out, "✅ Imported %d of %d rows from %s\n", resp.ProcessedItems, resp.TotalRows, name)
			if len(resp.Errors) == 0 {
				return nil
			}
			yellow.Fprintf(out, "⚠️  %d rows rejected:\n", len(resp.Errors))
			for _, e := range resp.Errors {
				red.Fprintf(out, "   - row %d: %s\n", e.RowNumber, e.Error)
			}
			return nil
		},
	}
}
