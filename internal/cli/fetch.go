package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/degreeplan/internal/catalog"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	majorsFile   string
	outputDir    string
	fetchTimeout time.Duration
	concurrency  int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [major]...",
	Short: "Fetch requirement batches for several majors in parallel",
	Long: `Fetch downloads the requirements of several majors concurrently and saves
each batch as <major>.json, ready to be used with --records.

Majors come from the arguments or from a file (one per line). With neither,
every known major is fetched.

Example:
  degreeplan fetch CS IS
  degreeplan fetch --file majors.txt --output-dir ./snapshots --concurrency 2`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&majorsFile, "file", "", "file listing majors, one per line")
	fetchCmd.Flags().StringVar(&outputDir, "output-dir", "./degreeplan-requirements", "output directory for requirement batches")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 2*time.Minute, "total timeout for fetching")
	fetchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	majors, err := fetchMajors(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  degreeplan fetch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  API:          %s\n", cfg.API.BaseURL)
	fmt.Fprintf(os.Stderr, "  Majors:       %d\n", len(majors))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fetcher := worker.NewBatchFetcher(newClient(cfg), cfg.Concurrency.Workers)
	results := fetcher.FetchMajors(ctx, majors)

	var failed int
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Major, r.Error)
			continue
		}

		path := filepath.Join(outputDir, strings.ToLower(string(r.Major))+".json")
		if err := saveRecords(path, r.Records); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Major, err)
			continue
		}
		logger.Debug("Saved requirement batch", zap.String("major", string(r.Major)), zap.String("path", path))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d requirements → %s\n", r.Major, len(r.Records), path)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Fetched: %d/%d\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d majors failed", failed, len(results))
	}
	return nil
}

func fetchMajors(args []string) ([]model.Major, error) {
	if majorsFile != "" {
		return worker.ReadMajorsFromFile(majorsFile)
	}
	if len(args) == 0 {
		return model.Majors, nil
	}

	majors := make([]model.Major, 0, len(args))
	for _, arg := range args {
		major, err := catalog.ResolveMajor(arg)
		if err != nil {
			return nil, err
		}
		majors = append(majors, major)
	}
	return majors, nil
}

// saveRecords writes records back in the API row shape
func saveRecords(path string, records []model.RequirementRecord) error {
	rows := make([]model.APIRequirement, len(records))
	for i, r := range records {
		rows[i] = model.APIRequirement{
			Requirement: r.RawPath,
			Type:        r.IsGenEd,
			Major:       string(r.OwningMajor),
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
