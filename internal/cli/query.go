package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/brimesh123/search-engine/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func notFound(err error, what, id string) error {
	if errors.Is(err, service.ErrNotFound) {
		return fmt.Errorf("%s %q not found", what, id)
	}
	return err
}

func newBOMCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bom <itemNo>",
		Short: "Print the bill of materials of a main item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bom, err := a.bomService().GetBOM(cmd.Context(), args[0])
			if err != nil {
				return notFound(err, "main item", args[0])
			}

			out := cmd.OutOrStdout()
			color.New(color.FgBlue, color.Bold).Fprintf(out, "%s  %s\n", bom.MainItem.ItemNo, bom.MainItem.ItemName)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHILD\tNAME\tQTY\tI/R")
			for _, c := range bom.ChildItems {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ChildItemNo, c.ChildItemName, c.Quantity, c.ItemRelation)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			color.New(color.FgCyan).Fprintf(out, "%d components, total quantity %d\n", bom.TotalComponents, bom.TotalQuantity)
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find main items by number or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.bomService().SearchMainItems(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				color.New(color.FgYellow).Fprintln(out, "no matches")
				return nil
			}
			for _, it := range items {
				fmt.Fprintf(out, "%s\t%s\n", it.ItemNo, it.ItemName)
			}
			return nil
		},
	}
}

func newWhereUsedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "where-used <childItemNo>",
		Short: "List the main items that use a child item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.bomService().WhereUsed(cmd.Context(), args[0])
			if err != nil {
				return notFound(err, "child item", args[0])
			}

			out := cmd.OutOrStdout()
			color.New(color.FgBlue, color.Bold).Fprintf(out, "%s  %s\n", resp.ChildItem.ItemNo, resp.ChildItem.ItemName)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MAIN\tNAME\tQTY\tI/R")
			for _, p := range resp.UsedIn {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.MainItemNo, p.MainItemName, p.Quantity, p.ItemRelation)
			}
			return tw.Flush()
		},
	}
}
