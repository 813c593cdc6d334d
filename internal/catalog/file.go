package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadRecordsFile reads a requirements payload saved to disk.
// YAML files hold a list of API rows; anything else is decoded as JSON.
func LoadRecordsFile(path string) ([]model.RequirementRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var rows []model.APIRequirement
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parse records: %w", err)
		}
	} else {
		if rows, err = DecodeRequirements(data); err != nil {
			return nil, err
		}
	}

	return Normalize(rows), nil
}

// LoadCoursesFile reads a course payload saved to disk
func LoadCoursesFile(path string) ([]model.Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read courses: %w", err)
	}

	if isYAML(path) {
		var courses []model.Course
		if err := yaml.Unmarshal(data, &courses); err != nil {
			return nil, fmt.Errorf("parse courses: %w", err)
		}
		return courses, nil
	}
	return DecodeCourses(data)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
