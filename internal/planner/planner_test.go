package planner

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/store"
	"github.com/stretchr/testify/require"
)

func records() []model.RequirementRecord {
	return []model.RequirementRecord{
		{RawPath: "BS in IS---Core---Math", OwningMajor: model.MajorIS},
		{RawPath: "BS in IS---Core---CS Req", OwningMajor: model.MajorIS},
		{RawPath: "GenEd---Arts---Painting", IsGenEd: true, OwningMajor: model.MajorIS},
	}
}

func newPlanner(t *testing.T) *Planner {
	t.Helper()
	return New(store.NewFileStore(filepath.Join(t.TempDir(), "state.yaml")), nil)
}

func TestFingerprint(t *testing.T) {
	a := records()
	b := records()
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	b[2].IsGenEd = false
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))

	reordered := []model.RequirementRecord{a[1], a[0], a[2]}
	require.NotEqual(t, Fingerprint(a), Fingerprint(reordered))
}

func TestPlanner_TreeMemoized(t *testing.T) {
	p := newPlanner(t)

	first := p.Tree(records())
	second := p.Tree(records())
	require.Same(t, first, second)

	other := p.Tree(records()[:2])
	require.NotSame(t, first, other)
	require.Nil(t, other.GenEd)
}

func TestPlanner_SelectAndTags(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()

	_, err := p.Select(ctx, model.MajorIS, "BS in IS---Core---Math", "BS in IS---Core---CS Req")
	require.NoError(t, err)

	tags, err := p.Tags(ctx, model.MajorIS, records())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, grouptree.GroupTag, tags[0].Kind)
	require.Equal(t, []string{"Core"}, tags[0].GroupPath)

	// Removing the group tag clears both of its leaves
	selected, err := p.RemoveTag(ctx, model.MajorIS, tags[0])
	require.NoError(t, err)
	require.Equal(t, 0, selected.Len())

	_, err = p.Select(ctx, model.MajorIS, "GenEd---Arts---Painting", "retired---requirement")
	require.NoError(t, err)

	tags, err = p.Tags(ctx, model.MajorIS, records())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "GenEd---Arts---Painting", tags[0].RawValue)
	require.True(t, tags[0].Resolved)
	require.Equal(t, "retired---requirement", tags[1].RawValue)
	require.False(t, tags[1].Resolved)

	selected, err = p.Deselect(ctx, model.MajorIS, "retired---requirement")
	require.NoError(t, err)
	require.Equal(t, []string{"GenEd---Arts---Painting"}, selected.Values())

	// Other majors are unaffected
	cs, err := p.Selection(ctx, model.MajorCS)
	require.NoError(t, err)
	require.Equal(t, 0, cs.Len())
}

func TestPlanner_ToggleAll(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()

	selected, err := p.ToggleAll(ctx, model.MajorIS, records())
	require.NoError(t, err)
	require.Equal(t, 3, selected.Len())

	selected, err = p.ToggleAll(ctx, model.MajorIS, records())
	require.NoError(t, err)
	require.Equal(t, 0, selected.Len())

	stored, err := p.Selection(ctx, model.MajorIS)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Len())
}

func TestPlanner_ToggleGroup(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()

	selected, err := p.ToggleGroup(ctx, model.MajorIS, records(), grouptree.CategoryCore, "Core")
	require.NoError(t, err)
	require.Equal(t, []string{"BS in IS---Core---CS Req", "BS in IS---Core---Math"}, selected.Values())

	selected, err = p.ToggleGroup(ctx, model.MajorIS, records(), grouptree.CategoryCore, "Core")
	require.NoError(t, err)
	require.Equal(t, 0, selected.Len())

	_, err = p.ToggleGroup(ctx, model.MajorIS, records(), grouptree.CategoryGenEd, "Nope")
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestPlanner_Clear(t *testing.T) {
	p := newPlanner(t)
	ctx := context.Background()

	_, err := p.Select(ctx, model.MajorIS, "x")
	require.NoError(t, err)
	require.NoError(t, p.Clear(ctx, model.MajorIS))

	selected, err := p.Selection(ctx, model.MajorIS)
	require.NoError(t, err)
	require.Equal(t, 0, selected.Len())
}
