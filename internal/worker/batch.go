package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/degreeplan/internal/model"
)

// RequirementFetcher loads the requirement batch of one major
type RequirementFetcher interface {
	FetchRequirements(ctx context.Context, major model.Major) ([]model.RequirementRecord, error)
}

// MajorJob fetches one major's requirements
type MajorJob struct {
	Major   model.Major
	Fetcher RequirementFetcher
}

// Execute executes the fetch job
func (j *MajorJob) Execute(ctx context.Context) Result {
	records, err := j.Fetcher.FetchRequirements(ctx, j.Major)
	if err != nil {
		return &MajorResult{Major: j.Major, Error: fmt.Errorf("fetch %s: %w", j.Major, err)}
	}
	return &MajorResult{Major: j.Major, Records: records}
}

// MajorResult is the outcome of fetching one major
type MajorResult struct {
	Major   model.Major
	Records []model.RequirementRecord
	Error   error
}

// GetError returns the error from the fetch
func (r *MajorResult) GetError() error {
	return r.Error
}

// BatchFetcher fetches several majors concurrently
type BatchFetcher struct {
	fetcher     RequirementFetcher
	concurrency int
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetcher RequirementFetcher, concurrency int) *BatchFetcher {
	return &BatchFetcher{
		fetcher:     fetcher,
		concurrency: concurrency,
	}
}

// FetchMajors fetches every major and returns results in input order
func (b *BatchFetcher) FetchMajors(ctx context.Context, majors []model.Major) []*MajorResult {
	jobs := make([]Job, len(majors))
	for i, major := range majors {
		jobs[i] = &MajorJob{Major: major, Fetcher: b.fetcher}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	majorResults := make([]*MajorResult, len(results))
	for i, result := range results {
		majorResults[i] = result.(*MajorResult)
	}
	return majorResults
}

// ReadMajorsFromFile reads program codes from a file (one per line).
// Blank lines and # comments are skipped and duplicates are dropped.
func ReadMajorsFromFile(filePath string) ([]model.Major, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var majors []model.Major
	seen := make(map[model.Major]bool)

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		major, ok := model.ParseMajor(text)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown major %q", line, text)
		}
		if !seen[major] {
			seen[major] = true
			majors = append(majors, major)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return majors, nil
}
