package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/ppiankov/degreeplan/internal/catalog"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/planner"
	"github.com/spf13/cobra"
)

var planName string

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage a semester course plan",
	Long: `Plan keeps named course plans: which course is taken in which semester,
and how much of each requirement group the planned courses satisfy.

Example:
  degreeplan plan add "INFO 101" "Fall 2026" --major IS
  degreeplan plan show
  degreeplan plan coverage --major IS --records requirements.json --courses courses.json`,
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a plan",
	Args:  cobra.NoArgs,
	RunE:  runPlanShow,
}

var planAddCmd = &cobra.Command{
	Use:   "add <course> <semester>",
	Short: "Place a course in a semester",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanAdd,
}

var planRemoveCmd = &cobra.Command{
	Use:   "remove <course>",
	Short: "Remove a course from a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanRemove,
}

var planCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Show how much of each requirement group a plan satisfies",
	Args:  cobra.NoArgs,
	RunE:  runPlanCoverage,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.PersistentFlags().StringVar(&planName, "plan", "default", "plan name")
	planCmd.AddCommand(planShowCmd, planAddCmd, planRemoveCmd, planCoverageCmd)

	planAddCmd.Flags().StringVarP(&majorCode, "major", "m", "", "major code (BA, BS, CS, IS)")
	addSourceFlags(planCoverageCmd)
	addCoursesFlag(planCoverageCmd)
}

// openPlanSession opens a session for commands that work on plans by name only
func openPlanSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(ctx, cfg)
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := openPlanSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.planner.Plan(ctx, planName)
	if err != nil {
		return err
	}
	return writePlan(cmd.OutOrStdout(), s.cfg.Output.Format, plan)
}

func runPlanAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := openPlanSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var major model.Major
	if majorCode != "" {
		if major, err = catalog.ResolveMajor(majorCode); err != nil {
			return fmt.Errorf("--major: %w", err)
		}
	}

	plan, err := s.planner.AddToPlan(ctx, planName, major, args[0], args[1])
	if err != nil {
		return err
	}
	return writePlan(cmd.OutOrStdout(), s.cfg.Output.Format, plan)
}

func runPlanRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := openPlanSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := s.planner.RemoveFromPlan(ctx, planName, args[0])
	if err != nil {
		return err
	}
	return writePlan(cmd.OutOrStdout(), s.cfg.Output.Format, plan)
}

func runPlanCoverage(cmd *cobra.Command, args []string) error {
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
	courses, err := s.courses(ctx)
	if err != nil {
		return err
	}
	plan, err := s.planner.Plan(ctx, planName)
	if err != nil {
		return err
	}

	report := planner.Coverage(s.planner.Tree(records), plan, courses)
	if ok, err := writeStructured(cmd.OutOrStdout(), s.cfg.Output.Format, report); ok {
		return err
	}

	w := cmd.OutOrStdout()
	if len(report) == 0 {
		fmt.Fprintln(w, "No requirements.")
		return nil
	}
	for _, gc := range report {
		fmt.Fprintf(w, "%-6s %-40s %d/%d\n", gc.Category, gc.Group, gc.Satisfied, gc.Total)
	}
	return nil
}

func writePlan(w io.Writer, format string, plan *model.Plan) error {
	if ok, err := writeStructured(w, format, plan); ok {
		return err
	}

	fmt.Fprintf(w, "Plan %q", plan.Name)
	if plan.Major != "" {
		fmt.Fprintf(w, " (%s)", plan.Major)
	}
	fmt.Fprintln(w)
	if len(plan.Courses) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return nil
	}
	for _, pc := range plan.Courses {
		fmt.Fprintf(w, "  %-14s %s\n", pc.Semester, pc.Code)
	}
	return nil
}
