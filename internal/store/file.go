package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ppiankov/degreeplan/internal/model"
	"gopkg.in/yaml.v3"
)

// FileStore keeps all state in a single YAML document
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileState struct {
	Selections map[model.Major][]string `yaml:"selections"`
	Plans      map[string]*model.Plan   `yaml:"plans"`
}

// NewFileStore creates a store backed by the YAML file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadSelection(ctx context.Context, major model.Major) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return nil, err
	}
	values := append([]string(nil), state.Selections[major]...)
	sort.Strings(values)
	return values, nil
}

func (s *FileStore) SaveSelection(ctx context.Context, major model.Major, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}

	if len(values) == 0 {
		delete(state.Selections, major)
	} else {
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		state.Selections[major] = sorted
	}
	return s.write(state)
}

func (s *FileStore) LoadPlan(ctx context.Context, name string) (*model.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return nil, err
	}
	plan, ok := state.Plans[name]
	if !ok {
		return nil, fmt.Errorf("plan %q: %w", name, ErrNotFound)
	}
	return plan, nil
}

func (s *FileStore) SavePlan(ctx context.Context, plan *model.Plan) error {
	if plan.Name == "" {
		return errors.New("plan name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.read()
	if err != nil {
		return err
	}
	state.Plans[plan.Name] = plan
	return s.write(state)
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (*fileState, error) {
	state := &fileState{
		Selections: make(map[model.Major][]string),
		Plans:      make(map[string]*model.Plan),
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	if state.Selections == nil {
		state.Selections = make(map[model.Major][]string)
	}
	if state.Plans == nil {
		state.Plans = make(map[string]*model.Plan)
	}
	return state, nil
}

func (s *FileStore) write(state *fileState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
