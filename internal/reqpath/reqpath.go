// Package reqpath parses delimiter-encoded requirement paths and renders them
// as breadcrumbs.
//
// A raw path such as
//
//	BS in Information Systems---Concentration---Information Security and Privacy---Regulatory and Behavioral Core
//
// starts with the owning program and descends through the requirement
// hierarchy. Core and GenEd paths are truncated differently before display.
package reqpath

import (
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
)

const (
	// Delimiter separates segments of a raw requirement path
	Delimiter = "---"

	// Arrow joins segments of a rendered breadcrumb
	Arrow = " → "

	// GenEdMarker tags the segment that heads general-education paths
	GenEdMarker = "General Education"

	// UniversityCoreMarker is the alternate GenEd heading used by one program
	UniversityCoreMarker = "University Core Requirements"
)

// Label is the ordered segment list shown for a requirement.
// It doubles as the requirement's path in the group tree.
type Label []string

// Empty reports whether the label has no segments
func (l Label) Empty() bool {
	return len(l) == 0
}

// Last returns the final segment, or "" for an empty label
func (l Label) Last() string {
	if len(l) == 0 {
		return ""
	}
	return l[len(l)-1]
}

// Parents returns every segment except the last
func (l Label) Parents() []string {
	if len(l) < 2 {
		return nil
	}
	return l[:len(l)-1]
}

// Breadcrumb joins the segments with the arrow separator
func (l Label) Breadcrumb() string {
	return strings.Join(l, Arrow)
}

// Split breaks a raw path into trimmed, non-empty segments
func Split(rawPath string) []string {
	return splitOn(rawPath, Delimiter)
}

// ClassifyAndFormat computes the display label of a requirement.
//
// GenEd paths drop everything through the "General Education" segment, or
// through the "University Core Requirements" segment when the first marker is
// absent, or only the program prefix when neither marker is present. Core
// paths always drop exactly the program prefix. When nothing is left the last
// original segment is used. An empty raw path yields an empty label.
func ClassifyAndFormat(record model.RequirementRecord) Label {
	segments := Split(record.RawPath)
	if len(segments) == 0 {
		return nil
	}

	var rest []string
	if record.IsGenEd {
		rest = stripGenEd(segments)
	} else {
		rest = segments[1:]
	}

	if len(rest) == 0 {
		return Label{segments[len(segments)-1]}
	}

	breadcrumb := strings.Join(rest, Arrow)
	return Label(splitOn(breadcrumb, Arrow))
}

// Breadcrumb renders the full category-aware breadcrumb of a requirement
func Breadcrumb(record model.RequirementRecord) string {
	return ClassifyAndFormat(record).Breadcrumb()
}

// SummaryLabel renders the short text used on filter tags.
// It strips the program prefix regardless of category and keeps at most the
// last two remaining segments.
func SummaryLabel(rawPath string) string {
	segments := Split(rawPath)
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return segments[0]
	}

	rest := segments[1:]
	if len(rest) > 2 {
		rest = rest[len(rest)-2:]
	}
	return strings.Join(rest, Arrow)
}

func stripGenEd(segments []string) []string {
	for _, marker := range []string{GenEdMarker, UniversityCoreMarker} {
		if i := indexContaining(segments, marker); i >= 0 {
			return segments[i+1:]
		}
	}
	return segments[1:]
}

func indexContaining(segments []string, marker string) int {
	for i, s := range segments {
		if strings.Contains(s, marker) {
			return i
		}
	}
	return -1
}

func splitOn(s, sep string) []string {
	parts := strings.Split(s, sep)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
