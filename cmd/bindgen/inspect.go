package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"bindgen/internal/ir"
	"bindgen/internal/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <graph.bgir>",
	Short: "Summarize a declaration graph",
	Long:  "Inspect prints per-kind counts and the top-level declarations of a graph file.",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectExecution,
}

func init() {
	inspectCmd.Flags().Int("width", 80, "maximum width of the item table")
	inspectCmd.Flags().Bool("counts", false, "print only the per-kind counts")
}

func inspectExecution(cmd *cobra.Command, args []string) error {
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	countsOnly, err := cmd.Flags().GetBool("counts")
	if err != nil {
		return err
	}
	g, err := ir.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%s: invalid graph: %w", args[0], err)
	}
	out := cmd.OutOrStdout()
	printKindCounts(out, g)
	if countsOnly {
		return nil
	}
	fmt.Fprintln(out)
	printItemTable(out, g, width)
	return nil
}

// kindLabel names an item the way the table shows it: type items by their
// type kind, everything else by item kind.
func kindLabel(it *ir.Item) string {
	if it.Kind == ir.ItemType && it.Type != nil {
		return it.Type.Kind.String()
	}
	return it.Kind.String()
}

func printKindCounts(w io.Writer, g *ir.Graph) {
	counts := make(map[string]int)
	for _, it := range g.Items {
		counts[kindLabel(it)]++
	}
	labels := make([]string, 0, len(counts))
	width := 0
	for label := range counts {
		labels = append(labels, label)
		width = max(width, len(label))
	}
	sort.Strings(labels)
	fmt.Fprintf(w, "%d items\n", len(g.Items))
	for _, label := range labels {
		fmt.Fprintf(w, "  %s %d\n", ui.PadRight(label, width), counts[label])
	}
}

type itemRow struct {
	id, kind, name, layout string
}

func printItemTable(w io.Writer, g *ir.Graph, width int) {
	root := g.Item(g.Root)
	rows := []itemRow{{"ID", "KIND", "NAME", "LAYOUT"}}
	for _, id := range root.Module.Children {
		it := g.Item(id)
		if it == nil {
			continue
		}
		name := it.Name
		if name == "" {
			name = "<anonymous>"
		}
		layout := "-"
		if l, ok := g.LayoutOf(id); ok && it.Kind == ir.ItemType {
			layout = fmt.Sprintf("%d/%d", l.Size, l.Align)
		}
		rows = append(rows, itemRow{fmt.Sprint(id), kindLabel(it), name, layout})
	}

	var idW, kindW, layoutW int
	for _, r := range rows {
		idW = max(idW, len(r.id))
		kindW = max(kindW, len(r.kind))
		layoutW = max(layoutW, len(r.layout))
	}
	nameW := max(width-idW-kindW-layoutW-6, 8)
	for _, r := range rows {
		line := strings.Join([]string{
			ui.PadRight(r.id, idW),
			ui.PadRight(r.kind, kindW),
			ui.PadRight(ui.Truncate(r.name, nameW), nameW),
			r.layout,
		}, "  ")
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
