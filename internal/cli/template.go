package cli

import (
	"os"

	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/sheet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template <out.xlsx>",
		Short: "Write a BOM upload template with example rows",
		Args:  cobra.ExactArgs(1),
		// No database needed.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := sheet.WriteTemplate(f, dto.Columns, dto.TemplateExamples...); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", args[0])
			return nil
		},
	}
}
