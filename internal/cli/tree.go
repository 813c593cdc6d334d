package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/spf13/cobra"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the requirement groups of a major",
	Long: `Tree groups a major's requirements into Core and GenEd the way the
filter dropdown shows them. Checkboxes reflect the stored selection:
[x] fully selected, [-] partially selected, [ ] not selected.

Example:
  degreeplan tree --major IS --records requirements.json
  degreeplan tree --major CS --api --format json`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	addSourceFlags(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.records(ctx)
	if err != nil {
		return err
	}
	tree := s.planner.Tree(records)

	if ok, err := writeStructured(cmd.OutOrStdout(), s.cfg.Output.Format, tree); ok {
		return err
	}

	selected, err := s.planner.Selection(ctx, s.major)
	if err != nil {
		return err
	}
	renderTree(cmd.OutOrStdout(), tree, selected)
	return nil
}

func renderTree(w io.Writer, tree *grouptree.Tree, selected grouptree.SelectionSet) {
	options := tree.Values()
	if len(options) == 0 {
		fmt.Fprintln(w, "No requirements.")
		return
	}

	all := grouptree.IsAllSelected(options, selected)
	fmt.Fprintf(w, "%s Select All (%d)\n", checkbox(all, !all && selected.Len() > 0), len(options))

	grouptree.Walk(tree, func(c grouptree.Category, n *grouptree.GroupNode) bool {
		indent := strings.Repeat("  ", len(n.Path)+1)
		full := grouptree.IsGroupFullySelected(n, selected)
		partial := grouptree.IsGroupPartiallySelected(n, selected)
		fmt.Fprintf(w, "%s%s %s\n", indent, checkbox(full, partial), n.Name)
		for _, item := range n.Items {
			fmt.Fprintf(w, "%s  %s %s\n", indent, checkbox(selected.Has(item.RawValue), false), item.Label)
		}
		return true
	})
}
