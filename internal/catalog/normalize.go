package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
	"golang.org/x/net/html"
)

// ErrUnknownMajor is returned for program codes outside the known set
var ErrUnknownMajor = errors.New("unknown major")

// ResolveMajor maps a user- or API-supplied program code to its display code
func ResolveMajor(raw string) (model.Major, error) {
	major, ok := model.ParseMajor(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMajor, raw)
	}
	return major, nil
}

// Normalize converts API rows into requirement records.
// Requirement text is trimmed and HTML-unescaped, rows without text are
// dropped, and unknown program codes are kept upper-cased.
func Normalize(rows []model.APIRequirement) []model.RequirementRecord {
	records := make([]model.RequirementRecord, 0, len(rows))
	for _, row := range rows {
		path := strings.TrimSpace(html.UnescapeString(row.Requirement))
		if path == "" {
			continue
		}

		major, ok := model.ParseMajor(row.Major)
		if !ok {
			major = model.Major(strings.ToUpper(strings.TrimSpace(row.Major)))
		}

		records = append(records, model.RequirementRecord{
			RawPath:     path,
			IsGenEd:     row.Type,
			OwningMajor: major,
		})
	}
	return records
}

// DecodeRequirements accepts the payload shapes the API has been seen to return:
// a bare array, an object wrapping the array under "requirements" or "data",
// or an object keyed by program code. For the keyed shape rows without a
// major inherit their key, and keys are visited in sorted order.
func DecodeRequirements(body []byte) ([]model.APIRequirement, error) {
	var rows []model.APIRequirement
	if err := json.Unmarshal(body, &rows); err == nil {
		return rows, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}

	for _, key := range []string{"requirements", "data"} {
		if raw, ok := wrapped[key]; ok {
			if err := json.Unmarshal(raw, &rows); err != nil {
				return nil, fmt.Errorf("decode %s: %w", key, err)
			}
			return rows, nil
		}
	}

	keys := make([]string, 0, len(wrapped))
	for k := range wrapped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var group []model.APIRequirement
		if err := json.Unmarshal(wrapped[key], &group); err != nil {
			return nil, fmt.Errorf("decode requirements for %s: %w", key, err)
		}
		for i := range group {
			if strings.TrimSpace(group[i].Major) == "" {
				group[i].Major = key
			}
		}
		rows = append(rows, group...)
	}
	return rows, nil
}

// DecodeCourses decodes a course payload, bare or wrapped under "courses"
func DecodeCourses(body []byte) ([]model.Course, error) {
	var courses []model.Course
	if err := json.Unmarshal(body, &courses); err != nil {
		var wrapped struct {
			Courses []model.Course `json:"courses"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode courses: %w", err)
		}
		courses = wrapped.Courses
	}

	for i := range courses {
		courses[i].Title = strings.TrimSpace(html.UnescapeString(courses[i].Title))
		for j, req := range courses[i].Requirements {
			courses[i].Requirements[j] = strings.TrimSpace(html.UnescapeString(req))
		}
	}
	return courses, nil
}
