package model

import "strings"

// Major is the display code of a degree program
type Major string

const (
	MajorBA Major = "BA" // Business Administration
	MajorBS Major = "BS" // Bachelor of Science programs
	MajorCS Major = "CS" // Computer Science
	MajorIS Major = "IS" // Information Systems
)

// Majors lists the known display codes in display order
var Majors = []Major{MajorBA, MajorBS, MajorCS, MajorIS}

var majorAliases = map[string]Major{
	"ba":                      MajorBA,
	"business administration": MajorBA,
	"bs":                      MajorBS,
	"bachelor of science":     MajorBS,
	"cs":                      MajorCS,
	"bs-cs":                   MajorCS,
	"computer science":        MajorCS,
	"is":                      MajorIS,
	"bs-is":                   MajorIS,
	"information systems":     MajorIS,
}

// ParseMajor maps a raw program code from the API to its display code
func ParseMajor(raw string) (Major, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	major, ok := majorAliases[key]
	return major, ok
}

// APIRequirement is one row of the Requirements API payload
type APIRequirement struct {
	Requirement string `json:"requirement" yaml:"requirement"` // Delimiter-joined path
	Type        bool   `json:"type" yaml:"type"`               // true for GenEd
	Major       string `json:"major" yaml:"major"`             // Raw program code
}

// RequirementRecord is a normalized requirement a course can satisfy
type RequirementRecord struct {
	RawPath     string `json:"raw_path" yaml:"raw_path"`
	IsGenEd     bool   `json:"is_gened" yaml:"is_gened"`
	OwningMajor Major  `json:"owning_major" yaml:"owning_major"`
}
