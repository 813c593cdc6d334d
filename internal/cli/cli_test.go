package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/degreeplan/internal/catalog"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/stretchr/testify/require"
)

const recordsJSON = `[
  {"requirement": "BS in IS---Core---Math", "type": false, "major": "bs-is"},
  {"requirement": "BS in IS---Core---CS Req", "type": false, "major": "IS"},
  {"requirement": "Gen Ed---General Education---Arts---Painting", "type": true, "major": "is"},
  {"requirement": "BS in CS---Core---Algorithms", "type": false, "major": "cs"}
]`

const coursesJSON = `[
  {"code": "MATH 110", "title": "Calculus", "credits": 3, "requirements": ["BS in IS---Core---Math"]},
  {"code": "ART 100", "title": "Painting I", "requirements": ["Gen Ed---General Education---Arts---Painting"]},
  {"code": "PE 101", "title": "Fitness"}
]`

// setupEnv isolates config and state for one test and returns the records and courses files
func setupEnv(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DEGREEPLAN_STORE_DRIVER", "file")
	t.Setenv("DEGREEPLAN_STORE_PATH", filepath.Join(dir, "state.yaml"))
	t.Setenv("DEGREEPLAN_CACHE_ENABLED", "false")

	records := filepath.Join(dir, "requirements.json")
	require.NoError(t, os.WriteFile(records, []byte(recordsJSON), 0644))
	courses := filepath.Join(dir, "courses.json")
	require.NoError(t, os.WriteFile(courses, []byte(coursesJSON), 0644))
	return records, courses
}

// run executes the CLI and returns stdout.
// Flag values persist between runs, so every call passes the flags it relies on.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTree_Text(t *testing.T) {
	records, _ := setupEnv(t)

	out, err := run(t, "tree", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)

	want := `[ ] Select All (3)
  [ ] Core Requirements
    [ ] Core
      [ ] Math
      [ ] CS Req
  [ ] GenEd Requirements
    [ ] Arts
      [ ] Painting
`
	require.Equal(t, want, out)
}

func TestTree_JSON(t *testing.T) {
	records, _ := setupEnv(t)

	out, err := run(t, "tree", "--major", "CS", "--records", records, "-o", "json")
	require.NoError(t, err)

	var tree struct {
		Core  *struct{ Name string } `json:"core"`
		GenEd *struct{ Name string } `json:"gened"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.NotNil(t, tree.Core)
	require.Nil(t, tree.GenEd)
}

func TestSelectAndTags(t *testing.T) {
	records, _ := setupEnv(t)

	out, err := run(t, "select", "group", "core", "Core", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "✓ 2 selected")

	_, err = run(t, "select", "add", "Gen Ed---General Education---Arts---Painting", "--major", "IS", "-o", "text")
	require.NoError(t, err)

	out, err = run(t, "tags", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Equal(t, " 1. Core (all 2)\n 2. Arts → Painting\n", out)

	out, err = run(t, "tree", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "[x] Select All (3)\n"))

	out, err = run(t, "select", "all", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Equal(t, "✓ 0 selected\n", out)

	out, err = run(t, "select", "all", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "✓ 3 selected")
}

func TestTagsRemove(t *testing.T) {
	records, _ := setupEnv(t)

	_, err := run(t, "select", "add", "BS in IS---Core---Math", "BS in IS---Core---CS Req", "retired---value", "--major", "IS", "-o", "text")
	require.NoError(t, err)

	out, err := run(t, "tags", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Equal(t, " 1. Core (all 2)\n 2. retired---value (stale)\n", out)

	out, err = run(t, "tags", "remove", "1", "--major", "IS", "--records", records, "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "2 cleared, 1 still selected")

	_, err = run(t, "tags", "remove", "5", "--major", "IS", "--records", records, "-o", "text")
	require.Error(t, err)
}

func TestSelect_Errors(t *testing.T) {
	records, _ := setupEnv(t)

	_, err := run(t, "select", "add", "x", "--major", "MBA", "-o", "text")
	require.ErrorIs(t, err, catalog.ErrUnknownMajor)

	_, err = run(t, "select", "group", "electives", "--major", "IS", "--records", records, "-o", "text")
	require.Error(t, err)

	_, err = run(t, "select", "all", "--major", "IS", "--records", "", "-o", "text")
	require.ErrorContains(t, err, "no requirement source")
}

func TestLabel(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "label", "--gened", "Gen Ed---General Education---Arts---Painting", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Breadcrumb string `json:"breadcrumb"`
		Summary    string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "Arts → Painting", got.Breadcrumb)
	require.Equal(t, "Arts → Painting", got.Summary)

	out, err = run(t, "label", "--gened=false", "A---B---C---D", "-o", "text")
	require.NoError(t, err)
	require.Equal(t, "Breadcrumb: B → C → D\nSummary:    C → D\n", out)
}

func TestCourses(t *testing.T) {
	_, courses := setupEnv(t)

	out, err := run(t, "courses", "--major", "IS", "--courses", courses, "--all=false", "-o", "text")
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "\n"))

	_, err = run(t, "select", "add", "BS in IS---Core---Math", "--major", "IS", "-o", "text")
	require.NoError(t, err)

	out, err = run(t, "courses", "--major", "IS", "--courses", courses, "--all=false", "-o", "text")
	require.NoError(t, err)
	require.Equal(t, "MATH 110   Calculus (3 cr)\n", out)
}

func TestPlan(t *testing.T) {
	records, courses := setupEnv(t)

	out, err := run(t, "plan", "show", "--plan", "p1", "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "(empty)")

	_, err = run(t, "plan", "add", "MATH 110", "Fall 2026", "--plan", "p1", "--major", "IS", "-o", "text")
	require.NoError(t, err)

	out, err = run(t, "plan", "show", "--plan", "p1", "-o", "json")
	require.NoError(t, err)
	var plan model.Plan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Equal(t, model.MajorIS, plan.Major)
	require.Equal(t, []model.PlannedCourse{{Code: "MATH 110", Semester: "Fall 2026"}}, plan.Courses)

	out, err = run(t, "plan", "coverage", "--plan", "p1", "--major", "IS", "--records", records, "--courses", courses, "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "1/2")
	require.Contains(t, out, "0/1")

	out, err = run(t, "plan", "remove", "MATH 110", "--plan", "p1", "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "(empty)")
}

func TestConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("DEGREEPLAN_API_BASE_URL", "http://catalog.test/api")

	out, err := run(t, "config", "show", "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "base_url: http://catalog.test/api")

	_, err = run(t, "config", "show", "-o", "xml")
	require.Error(t, err)

	_, err = run(t, "config", "init", "-o", "text")
	require.NoError(t, err)
	_, err = run(t, "config", "init", "-o", "text")
	require.ErrorContains(t, err, "already exists")
}

func TestFetch(t *testing.T) {
	setupEnv(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/requirements" {
			http.NotFound(w, r)
			return
		}
		major := r.URL.Query().Get("major")
		_, _ = w.Write([]byte(`[{"requirement": "Program---Core---Intro", "type": false, "major": "` + major + `"}]`))
	}))
	defer server.Close()
	t.Setenv("DEGREEPLAN_API_BASE_URL", server.URL)

	dir := t.TempDir()
	out, err := run(t, "fetch", "cs", "IS", "--output-dir", dir, "-o", "text")
	require.NoError(t, err)
	require.Contains(t, out, "✓ CS: 1 requirements")
	require.Contains(t, out, "✓ IS: 1 requirements")

	records, err := catalog.LoadRecordsFile(filepath.Join(dir, "is.json"))
	require.NoError(t, err)
	require.Equal(t, []model.RequirementRecord{
		{RawPath: "Program---Core---Intro", OwningMajor: model.MajorIS},
	}, records)
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	out, err := run(t, "version", "-o", "text")
	require.NoError(t, err)
	require.Equal(t, "degreeplan "+Version+"\n", out)
}
