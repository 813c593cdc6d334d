package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/store"
)

// FilterCourses keeps the courses satisfying at least one selected requirement.
// An empty selection applies no filter.
func FilterCourses(courses []model.Course, selected grouptree.SelectionSet) []model.Course {
	if selected.Len() == 0 {
		return courses
	}

	var matched []model.Course
	for _, c := range courses {
		for _, req := range c.Requirements {
			if selected.Has(req) {
				matched = append(matched, c)
				break
			}
		}
	}
	return matched
}

// AddToPlan places a course into a semester of the named plan, creating the plan if needed
func (p *Planner) AddToPlan(ctx context.Context, name string, major model.Major, code, semester string) (*model.Plan, error) {
	plan, err := p.Plan(ctx, name)
	if err != nil {
		return nil, err
	}
	if plan.Major == "" {
		plan.Major = major
	}

	plan.Add(code, semester)
	if err := p.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return plan, nil
}

// RemoveFromPlan drops a course from the named plan
func (p *Planner) RemoveFromPlan(ctx context.Context, name, code string) (*model.Plan, error) {
	plan, err := p.Plan(ctx, name)
	if err != nil {
		return nil, err
	}
	if !plan.Remove(code) {
		return plan, nil
	}
	if err := p.store.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return plan, nil
}

// Plan loads the named plan; a missing plan comes back empty
func (p *Planner) Plan(ctx context.Context, name string) (*model.Plan, error) {
	plan, err := p.store.LoadPlan(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return &model.Plan{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}

// GroupCoverage counts how many of a group's requirements a plan satisfies
type GroupCoverage struct {
	Category  grouptree.Category `json:"category" yaml:"category"`
	Group     string             `json:"group" yaml:"group"`
	Satisfied int                `json:"satisfied" yaml:"satisfied"`
	Total     int                `json:"total" yaml:"total"`
}

// Coverage reports, per top-level group, how many requirements the plan's
// courses satisfy. Leaves attached directly to a root are reported under the
// root's name.
func Coverage(tree *grouptree.Tree, plan *model.Plan, courses []model.Course) []GroupCoverage {
	planned := make(map[string]bool, len(plan.Courses))
	for _, pc := range plan.Courses {
		planned[pc.Code] = true
	}

	satisfied := grouptree.NewSelectionSet()
	for _, c := range courses {
		if !planned[c.Code] {
			continue
		}
		for _, req := range c.Requirements {
			satisfied.Add(req)
		}
	}

	var report []GroupCoverage
	count := func(c grouptree.Category, name string, values []string) {
		if len(values) == 0 {
			return
		}
		gc := GroupCoverage{Category: c, Group: name, Total: len(values)}
		for _, v := range values {
			if satisfied.Has(v) {
				gc.Satisfied++
			}
		}
		report = append(report, gc)
	}

	for _, c := range []grouptree.Category{grouptree.CategoryCore, grouptree.CategoryGenEd} {
		root := tree.Root(c)
		if root == nil {
			continue
		}
		var own []string
		for _, item := range root.Items {
			own = append(own, item.RawValue)
		}
		count(c, root.Name, own)
		for _, child := range root.Children {
			count(c, child.Name, grouptree.AllLeafValues(child))
		}
	}
	return report
}
