package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/reqpath"
	"github.com/spf13/cobra"
)

// tagsCmd represents the tags command
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show the selected filters as group and requirement tags",
	Long: `Tags collapses a major's stored selection into the fewest tags:
a group whose requirements are all selected becomes one group tag, and the
rest are listed individually. Selected values no longer in the catalog are
kept and marked stale.

Example:
  degreeplan tags --major IS --records requirements.json
  degreeplan tags remove 2 --major IS --records requirements.json`,
	Args: cobra.NoArgs,
	RunE: runTags,
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove the n-th tag (1-based) and everything it covers",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagsRemove,
}

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label <raw-path>",
	Short: "Show how a raw requirement path is displayed",
	Long: `Label prints the dropdown breadcrumb and the summary tag label of a raw
requirement path.

Example:
  degreeplan label "BS in IS---Core---Math"
  degreeplan label --gened "Gen Ed---General Education---Arts---Painting"`,
	Args: cobra.ExactArgs(1),
	RunE: runLabel,
}

var labelGenEd bool

func init() {
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(labelCmd)
	tagsCmd.AddCommand(tagsRemoveCmd)
	addSourceFlags(tagsCmd)
	addSourceFlags(tagsRemoveCmd)

	labelCmd.Flags().BoolVar(&labelGenEd, "gened", false, "treat the path as a GenEd requirement")
}

func runTags(cmd *cobra.Command, args []string) error {
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
	tags, err := s.planner.Tags(ctx, s.major, records)
	if err != nil {
		return err
	}

	if ok, err := writeStructured(cmd.OutOrStdout(), s.cfg.Output.Format, tags); ok {
		return err
	}
	renderTags(cmd.OutOrStdout(), tags)
	return nil
}

func runTagsRemove(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("tag number: %w", err)
	}

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
	tags, err := s.planner.Tags(ctx, s.major, records)
	if err != nil {
		return err
	}
	if n < 1 || n > len(tags) {
		return fmt.Errorf("tag %d out of range (1-%d)", n, len(tags))
	}

	removed := tags[n-1]
	selected, err := s.planner.RemoveTag(ctx, s.major, removed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %q (%d cleared, %d still selected)\n",
		removed.Label(), len(removed.Covered), selected.Len())
	return nil
}

func renderTags(w io.Writer, tags []grouptree.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(w, "No filters selected.")
		return
	}
	for i, tag := range tags {
		switch {
		case tag.Kind == grouptree.GroupTag:
			fmt.Fprintf(w, "%2d. %s (all %d)\n", i+1, tag.Label(), len(tag.Covered))
		case !tag.Resolved:
			fmt.Fprintf(w, "%2d. %s (stale)\n", i+1, tag.Label())
		default:
			fmt.Fprintf(w, "%2d. %s\n", i+1, tag.Label())
		}
	}
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	record := model.RequirementRecord{RawPath: args[0], IsGenEd: labelGenEd}
	label := reqpath.ClassifyAndFormat(record)
	out := struct {
		RawPath    string   `json:"raw_path" yaml:"raw_path"`
		Segments   []string `json:"segments" yaml:"segments"`
		Breadcrumb string   `json:"breadcrumb" yaml:"breadcrumb"`
		Summary    string   `json:"summary" yaml:"summary"`
	}{
		RawPath:    args[0],
		Segments:   label,
		Breadcrumb: label.Breadcrumb(),
		Summary:    reqpath.SummaryLabel(args[0]),
	}

	if ok, err := writeStructured(cmd.OutOrStdout(), cfg.Output.Format, out); ok {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Breadcrumb: %s\n", out.Breadcrumb)
	fmt.Fprintf(w, "Summary:    %s\n", out.Summary)
	return nil
}
