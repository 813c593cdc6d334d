package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/planner"
	"github.com/spf13/cobra"
)

var allCourses bool

// coursesCmd represents the courses command
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses matching the selected requirements",
	Long: `Courses lists a major's courses that satisfy at least one selected
requirement. With nothing selected every course is listed.

Example:
  degreeplan courses --major IS --courses courses.json
  degreeplan courses --major CS --api --all`,
	Args: cobra.NoArgs,
	RunE: runCourses,
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	addSourceFlags(coursesCmd)
	addCoursesFlag(coursesCmd)
	coursesCmd.Flags().BoolVar(&allCourses, "all", false, "ignore the selection")
}

func runCourses(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	courses, err := s.courses(ctx)
	if err != nil {
		return err
	}
	if !allCourses {
		selected, err := s.planner.Selection(ctx, s.major)
		if err != nil {
			return err
		}
		courses = planner.FilterCourses(courses, selected)
	}

	if ok, err := writeStructured(cmd.OutOrStdout(), s.cfg.Output.Format, courses); ok {
		return err
	}
	renderCourses(cmd.OutOrStdout(), courses)
	return nil
}

func renderCourses(w io.Writer, courses []model.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No matching courses.")
		return
	}
	for _, c := range courses {
		line := fmt.Sprintf("%-10s %s", c.Code, c.Title)
		if c.Credits > 0 {
			line += fmt.Sprintf(" (%g cr)", c.Credits)
		}
		if len(c.Semesters) > 0 {
			line += " [" + strings.Join(c.Semesters, ", ") + "]"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
