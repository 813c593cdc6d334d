package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/spf13/cobra"
)

// selectCmd represents the select command
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Change the stored requirement selection of a major",
	Long: `Select edits a major's requirement filter the way the dropdown does.

Example:
  degreeplan select add "BS in IS---Core---Math" --major IS
  degreeplan select group core Core --major IS --records requirements.json
  degreeplan select all --major IS --records requirements.json
  degreeplan select clear --major IS`,
}

var selectAddCmd = &cobra.Command{
	Use:   "add <raw-path>...",
	Short: "Select requirements by raw path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) (grouptree.SelectionSet, error) {
			return s.planner.Select(ctx, s.major, args...)
		})
	},
}

var selectRemoveCmd = &cobra.Command{
	Use:   "remove <raw-path>...",
	Short: "Deselect requirements by raw path",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) (grouptree.SelectionSet, error) {
			return s.planner.Deselect(ctx, s.major, args...)
		})
	},
}

var selectAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Toggle Select All / Deselect All",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) (grouptree.SelectionSet, error) {
			records, err := s.records(ctx)
			if err != nil {
				return nil, err
			}
			return s.planner.ToggleAll(ctx, s.major, records)
		})
	},
}

var selectGroupCmd = &cobra.Command{
	Use:   "group <core|gened> [group]...",
	Short: "Toggle every requirement in a group",
	Long: `Group selects all requirements under a group, or deselects them when the
group is already fully selected. Without a group path the whole category
root is toggled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseCategory(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) (grouptree.SelectionSet, error) {
			records, err := s.records(ctx)
			if err != nil {
				return nil, err
			}
			return s.planner.ToggleGroup(ctx, s.major, records, category, args[1:]...)
		})
	},
}

var selectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) (grouptree.SelectionSet, error) {
			return grouptree.NewSelectionSet(), s.planner.Clear(ctx, s.major)
		})
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	for _, cmd := range []*cobra.Command{selectAddCmd, selectRemoveCmd, selectAllCmd, selectGroupCmd, selectClearCmd} {
		selectCmd.AddCommand(cmd)
		addSourceFlags(cmd)
	}
}

func withSession(cmd *cobra.Command, fn func(context.Context, *session) (grouptree.SelectionSet, error)) error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	selected, err := fn(ctx, s)
	if err != nil {
		return err
	}

	if ok, err := writeStructured(cmd.OutOrStdout(), s.cfg.Output.Format, selected.Values()); ok {
		return err
	}
	renderSelection(cmd.OutOrStdout(), selected)
	return nil
}

func renderSelection(w io.Writer, selected grouptree.SelectionSet) {
	fmt.Fprintf(w, "✓ %d selected\n", selected.Len())
	for _, v := range selected.Values() {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

func parseCategory(raw string) (grouptree.Category, error) {
	switch grouptree.Category(raw) {
	case grouptree.CategoryCore, grouptree.CategoryGenEd:
		return grouptree.Category(raw), nil
	}
	return "", fmt.Errorf("unknown category %q (use core or gened)", raw)
}
