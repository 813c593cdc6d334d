// Package planner is the stateful shell around the requirement tree: it
// memoizes tree builds, loads and saves selections, and filters courses.
package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/degreeplan/internal/grouptree"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/store"
	"go.uber.org/zap"
)

// Planner applies selection changes for one store
type Planner struct {
	store  store.Store
	trees  *gocache.Cache
	logger *zap.Logger
}

// New creates a planner; a nil logger discards output
func New(s store.Store, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		store:  s,
		trees:  gocache.New(30*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// Fingerprint identifies a record batch by content and order
func Fingerprint(records []model.RequirementRecord) string {
	h := sha256.New()
	for _, r := range records {
		h.Write([]byte(r.RawPath))
		h.Write([]byte{0})
		h.Write([]byte(strconv.FormatBool(r.IsGenEd)))
		h.Write([]byte{0})
		h.Write([]byte(r.OwningMajor))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Tree returns the group tree of a batch, building it once per distinct batch.
// Callers must treat the returned tree as read-only.
func (p *Planner) Tree(records []model.RequirementRecord) *grouptree.Tree {
	key := Fingerprint(records)
	if cached, ok := p.trees.Get(key); ok {
		return cached.(*grouptree.Tree)
	}

	tree := grouptree.Build(records)
	p.trees.SetDefault(key, tree)
	p.logger.Debug("Built requirement tree",
		zap.Int("records", len(records)),
		zap.Int("leaves", len(tree.Values())))
	return tree
}

// Selection loads the current selection of a major
func (p *Planner) Selection(ctx context.Context, major model.Major) (grouptree.SelectionSet, error) {
	values, err := p.store.LoadSelection(ctx, major)
	if err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	return grouptree.NewSelectionSet(values...), nil
}

// Tags reconciles the stored selection of a major against its records
func (p *Planner) Tags(ctx context.Context, major model.Major, records []model.RequirementRecord) ([]grouptree.Tag, error) {
	selected, err := p.Selection(ctx, major)
	if err != nil {
		return nil, err
	}

	tags := grouptree.ReconcileTags(p.Tree(records), selected)
	for _, tag := range tags {
		if !tag.Resolved {
			p.logger.Warn("Selected requirement not in catalog",
				zap.String("major", string(major)),
				zap.String("value", tag.RawValue))
		}
	}
	return tags, nil
}

// Select adds raw values to a major's selection
func (p *Planner) Select(ctx context.Context, major model.Major, values ...string) (grouptree.SelectionSet, error) {
	return p.update(ctx, major, func(s grouptree.SelectionSet) grouptree.SelectionSet {
		next := s.Clone()
		for _, v := range values {
			next.Add(v)
		}
		return next
	})
}

// Deselect removes raw values from a major's selection
func (p *Planner) Deselect(ctx context.Context, major model.Major, values ...string) (grouptree.SelectionSet, error) {
	return p.update(ctx, major, func(s grouptree.SelectionSet) grouptree.SelectionSet {
		next := s.Clone()
		for _, v := range values {
			next.Remove(v)
		}
		return next
	})
}

// Clear empties a major's selection
func (p *Planner) Clear(ctx context.Context, major model.Major) error {
	return p.store.SaveSelection(ctx, major, nil)
}

// ToggleAll applies "Select All / Deselect All" over every requirement of the batch
func (p *Planner) ToggleAll(ctx context.Context, major model.Major, records []model.RequirementRecord) (grouptree.SelectionSet, error) {
	options := p.Tree(records).Values()
	return p.update(ctx, major, func(s grouptree.SelectionSet) grouptree.SelectionSet {
		return grouptree.ToggleAll(options, s)
	})
}

// ToggleGroup applies "select all in group" to the group at path
func (p *Planner) ToggleGroup(ctx context.Context, major model.Major, records []model.RequirementRecord, c grouptree.Category, path ...string) (grouptree.SelectionSet, error) {
	node := p.Tree(records).Find(c, path...)
	if node == nil {
		return nil, fmt.Errorf("group %v in %s: %w", path, c, store.ErrNotFound)
	}
	return p.update(ctx, major, func(s grouptree.SelectionSet) grouptree.SelectionSet {
		return grouptree.ToggleGroup(node, s)
	})
}

// RemoveTag clears the values covered by a tag
func (p *Planner) RemoveTag(ctx context.Context, major model.Major, tag grouptree.Tag) (grouptree.SelectionSet, error) {
	return p.update(ctx, major, func(s grouptree.SelectionSet) grouptree.SelectionSet {
		return grouptree.RemoveTag(tag, s)
	})
}

func (p *Planner) update(ctx context.Context, major model.Major, fn func(grouptree.SelectionSet) grouptree.SelectionSet) (grouptree.SelectionSet, error) {
	current, err := p.Selection(ctx, major)
	if err != nil {
		return nil, err
	}

	next := fn(current)
	if err := p.store.SaveSelection(ctx, major, next.Values()); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}

	p.logger.Debug("Selection updated",
		zap.String("major", string(major)),
		zap.Int("before", current.Len()),
		zap.Int("after", next.Len()))
	return next, nil
}
