package grouptree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/degreeplan/internal/model"
)

func scenarioRecords() []model.RequirementRecord {
	return []model.RequirementRecord{
		{RawPath: "BS in IS---Core---Math", OwningMajor: model.MajorIS},
		{RawPath: "BS in IS---Core---CS Req", OwningMajor: model.MajorIS},
		{RawPath: "GenEd---Arts---Painting", IsGenEd: true, OwningMajor: model.MajorIS},
	}
}

func concentrationRecords() []model.RequirementRecord {
	return []model.RequirementRecord{
		{RawPath: "BS in IS---Concentration---Security---Cryptography"},
		{RawPath: "BS in IS---Concentration---Security---Forensics"},
		{RawPath: "BS in IS---Concentration---Privacy---Regulation"},
		{RawPath: "BS in IS---Capstone"},
		{RawPath: "BS---Degree---General Education---Science---Lab", IsGenEd: true},
		{RawPath: "BS---Degree---General Education---Science---Lecture", IsGenEd: true},
		{RawPath: "BA---University Core Requirements---Writing---Composition", IsGenEd: true},
	}
}

func TestBuild_Scenario(t *testing.T) {
	got := Build(scenarioRecords())

	want := &Tree{
		Core: &GroupNode{
			Name: CoreRootName,
			Children: []*GroupNode{
				{
					Name: "Core",
					Path: []string{"Core"},
					Items: []LeafRef{
						{Label: "Math", RawValue: "BS in IS---Core---Math"},
						{Label: "CS Req", RawValue: "BS in IS---Core---CS Req"},
					},
				},
			},
		},
		GenEd: &GroupNode{
			Name: GenEdRootName,
			Children: []*GroupNode{
				{
					Name:  "Arts",
					Path:  []string{"Arts"},
					Items: []LeafRef{{Label: "Painting", RawValue: "GenEd---Arts---Painting"}},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_NestedGroupsKeepInsertionOrder(t *testing.T) {
	tree := Build(concentrationRecords())

	concentration := tree.Find(CategoryCore, "Concentration")
	if concentration == nil {
		t.Fatal("expected Concentration group")
	}

	var names []string
	for _, c := range concentration.Children {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Security", "Privacy"}, names); diff != "" {
		t.Errorf("child order mismatch (-want +got):\n%s", diff)
	}

	security := tree.Find(CategoryCore, "Concentration", "Security")
	if diff := cmp.Diff([]string{"Concentration", "Security"}, security.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	// Single-segment labels attach to the root itself
	if len(tree.Core.Items) != 1 || tree.Core.Items[0].Label != "Capstone" {
		t.Errorf("expected Capstone on core root, got %+v", tree.Core.Items)
	}

	if tree.Find(CategoryGenEd, "Science") == nil {
		t.Error("expected Science group under GenEd")
	}
	if tree.Find(CategoryGenEd, "Writing") == nil {
		t.Error("expected Writing group under GenEd")
	}
	if tree.Find(CategoryGenEd, "Missing") != nil {
		t.Error("expected nil for unknown group")
	}
}

func TestBuild_PrunesMissingRoot(t *testing.T) {
	records := scenarioRecords()[:2]
	tree := Build(records)

	if tree.GenEd != nil {
		t.Fatalf("expected no GenEd root, got %+v", tree.GenEd)
	}

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"gened"`) {
		t.Errorf("expected no gened key, got %s", data)
	}
}

func TestBuild_Empty(t *testing.T) {
	tree := Build(nil)
	if tree.Core != nil || tree.GenEd != nil {
		t.Errorf("expected empty tree, got %+v", tree)
	}
	if len(tree.Values()) != 0 {
		t.Errorf("expected no values, got %v", tree.Values())
	}
}

func TestBuild_SkipsEmptyLabels(t *testing.T) {
	tree := Build([]model.RequirementRecord{
		{RawPath: ""},
		{RawPath: "   ", IsGenEd: true},
		{RawPath: "------"},
	})
	if tree.Core != nil || tree.GenEd != nil {
		t.Errorf("expected degenerate records to be skipped, got %+v", tree)
	}
}

func TestBuild_DuplicateRawValues(t *testing.T) {
	records := []model.RequirementRecord{
		{RawPath: "BS---Core---Math"},
		{RawPath: "BS---Core---Stats"},
		{RawPath: "BS---Core---Math", IsGenEd: true},
	}
	tree := Build(records)

	if tree.GenEd != nil {
		t.Error("duplicate raw value should not create a second leaf")
	}
	if diff := cmp.Diff([]string{"BS---Core---Math", "BS---Core---Stats"}, tree.Values()); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	records := concentrationRecords()
	first := Build(records)
	second := Build(records)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Build() not deterministic (-first +second):\n%s", diff)
	}
}

func TestWalk(t *testing.T) {
	tree := Build(concentrationRecords())

	var visited []string
	Walk(tree, func(c Category, n *GroupNode) bool {
		visited = append(visited, string(c)+":"+n.Name)
		return n.Name != "Privacy"
	})

	want := []string{
		"core:" + CoreRootName,
		"core:Concentration",
		"core:Security",
		"core:Privacy",
		"gened:" + GenEdRootName,
		"gened:Science",
		"gened:Writing",
	}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("Walk() order mismatch (-want +got):\n%s", diff)
	}
}

func TestTree_NilSafe(t *testing.T) {
	var tree *Tree
	if tree.Root(CategoryCore) != nil || tree.Find(CategoryGenEd, "x") != nil {
		t.Error("expected nil lookups on nil tree")
	}
	if tree.Values() != nil {
		t.Error("expected nil values on nil tree")
	}
	Walk(tree, func(Category, *GroupNode) bool {
		t.Error("unexpected visit")
		return true
	})
}
