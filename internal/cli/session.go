package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/degreeplan/internal/cache"
	"github.com/ppiankov/degreeplan/internal/catalog"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/planner"
	"github.com/ppiankov/degreeplan/internal/store"
	"github.com/ppiankov/degreeplan/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Requirement source flags shared by the commands that need a record batch
var (
	recordsFile string
	coursesFile string
	useAPI      bool
	majorCode   string
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&recordsFile, "records", "", "requirements payload file (JSON or YAML)")
	cmd.Flags().BoolVar(&useAPI, "api", false, "fetch requirements from the Requirements API")
	cmd.Flags().StringVarP(&majorCode, "major", "m", "", "major code (BA, BS, CS, IS)")
}

func addCoursesFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&coursesFile, "courses", "", "course payload file (JSON or YAML)")
}

// session holds everything a command needs for one run
type session struct {
	cfg     *model.Config
	major   model.Major
	store   store.Store
	planner *planner.Planner
	client  *catalog.Client
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	major, err := catalog.ResolveMajor(majorCode)
	if err != nil {
		return nil, fmt.Errorf("--major: %w", err)
	}

	s, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.major = major
	if useAPI {
		s.client = newClient(cfg)
	}
	return s, nil
}

// openStore opens a session with no major or requirement source
func openStore(ctx context.Context, cfg *model.Config) (*session, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &session{
		cfg:     cfg,
		store:   st,
		planner: planner.New(st, logger),
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		logger.Warn("Close store", zap.Error(err))
	}
}

func newClient(cfg *model.Config) *catalog.Client {
	return catalog.NewClient(cfg.API,
		catalog.WithCache(cache.New(cfg.Cache)),
		catalog.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
		catalog.WithLogger(logger),
	)
}

// records loads the requirement batch of the session's major
func (s *session) records(ctx context.Context) ([]model.RequirementRecord, error) {
	switch {
	case recordsFile != "":
		records, err := catalog.LoadRecordsFile(recordsFile)
		if err != nil {
			return nil, err
		}
		return forMajor(records, s.major), nil
	case s.client != nil:
		return s.client.FetchRequirements(ctx, s.major)
	default:
		return nil, fmt.Errorf("no requirement source: pass --records <file> or --api")
	}
}

// courses loads the course catalog of the session's major
func (s *session) courses(ctx context.Context) ([]model.Course, error) {
	switch {
	case coursesFile != "":
		return catalog.LoadCoursesFile(coursesFile)
	case s.client != nil:
		return s.client.FetchCourses(ctx, s.major)
	default:
		return nil, fmt.Errorf("no course source: pass --courses <file> or --api")
	}
}

// forMajor keeps the records owned by major; records without an owner are kept
func forMajor(records []model.RequirementRecord, major model.Major) []model.RequirementRecord {
	kept := records[:0:0]
	for _, r := range records {
		if r.OwningMajor == "" || r.OwningMajor == major {
			kept = append(kept, r)
		}
	}
	return kept
}
