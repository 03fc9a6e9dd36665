package service

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/brimesh123/search-engine/internal/config"
	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/infra"
	"github.com/brimesh123/search-engine/internal/model"
	"github.com/brimesh123/search-engine/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubItemRepo is an in-memory ItemRepository. DB returns nil, so services
// run their transactional paths with a nil tx.
type stubItemRepo struct {
	mains  map[string]model.MainItem
	childs map[string]model.ChildItem
	rels   map[[2]string]model.ItemRelationship

	// relErr, when set, is returned by UpsertRelationshipTx for matching child numbers.
	relErr map[string]error
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{
		mains:  make(map[string]model.MainItem),
		childs: make(map[string]model.ChildItem),
		rels:   make(map[[2]string]model.ItemRelationship),
		relErr: make(map[string]error),
	}
}

func (r *stubItemRepo) ListMainItems(_ context.Context) ([]model.MainItem, error) {
	items := make([]model.MainItem, 0, len(r.mains))
	for _, m := range r.mains {
		items = append(items, m)
	}
	slices.SortFunc(items, func(a, b model.MainItem) int { return strings.Compare(a.ItemNo, b.ItemNo) })
	return items, nil
}

func (r *stubItemRepo) SearchMainItems(ctx context.Context, query string, limit int) ([]model.MainItem, error) {
	all, _ := r.ListMainItems(ctx)
	q := strings.ToLower(query)
	var out []model.MainItem
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.ItemNo), q) || strings.Contains(strings.ToLower(m.ItemName), q) {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubItemRepo) FindMainItem(_ context.Context, itemNo string) (*model.MainItem, error) {
	m, ok := r.mains[itemNo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *stubItemRepo) FindChildItem(_ context.Context, itemNo string) (*model.ChildItem, error) {
	c, ok := r.childs[itemNo]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubItemRepo) ListBOMLines(_ context.Context, mainItemNo string) ([]model.BOMLine, error) {
	var lines []model.BOMLine
	for k, rel := range r.rels {
		if k[0] != mainItemNo {
			continue
		}
		lines = append(lines, model.BOMLine{
			ChildItemNo:   rel.ChildItemNo,
			ChildItemName: r.childs[rel.ChildItemNo].ItemName,
			Quantity:      rel.Quantity,
			ItemRelation:  rel.ItemRelation,
		})
	}
	slices.SortFunc(lines, func(a, b model.BOMLine) int { return strings.Compare(a.ChildItemNo, b.ChildItemNo) })
	return lines, nil
}

func (r *stubItemRepo) ListWhereUsed(_ context.Context, childItemNo string) ([]model.WhereUsedLine, error) {
	var lines []model.WhereUsedLine
	for k, rel := range r.rels {
		if k[1] != childItemNo {
			continue
		}
		lines = append(lines, model.WhereUsedLine{
			MainItemNo:   rel.MainItemNo,
			MainItemName: r.mains[rel.MainItemNo].ItemName,
			Quantity:     rel.Quantity,
			ItemRelation: rel.ItemRelation,
		})
	}
	slices.SortFunc(lines, func(a, b model.WhereUsedLine) int { return strings.Compare(a.MainItemNo, b.MainItemNo) })
	return lines, nil
}

func (r *stubItemRepo) UpsertMainItemTx(_ *gorm.DB, item *model.MainItem) error {
	r.mains[item.ItemNo] = *item
	return nil
}

func (r *stubItemRepo) UpsertChildItemTx(_ *gorm.DB, item *model.ChildItem) error {
	r.childs[item.ItemNo] = *item
	return nil
}

func (r *stubItemRepo) UpsertRelationshipTx(_ *gorm.DB, rel *model.ItemRelationship) error {
	if err := r.relErr[rel.ChildItemNo]; err != nil {
		return err
	}
	r.rels[[2]string{rel.MainItemNo, rel.ChildItemNo}] = *rel
	return nil
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

var _ repository.ItemRepository = (*stubItemRepo)(nil)

// failingRepo wraps a real repository and fails the relationship upsert for
// chosen child numbers.
type failingRepo struct {
	repository.ItemRepository
	failOn map[string]error
}

func (r *failingRepo) UpsertRelationshipTx(tx *gorm.DB, rel *model.ItemRelationship) error {
	if err := r.failOn[rel.ChildItemNo]; err != nil {
		return err
	}
	return r.ItemRepository.UpsertRelationshipTx(tx, rel)
}

// stubHistory captures recorded summaries.
type stubHistory struct {
	mu        sync.Mutex
	summaries []dto.UploadSummary
}

func (h *stubHistory) Record(_ context.Context, s dto.UploadSummary) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.summaries = append(h.summaries, s)
	return nil
}

func (h *stubHistory) Recent(_ context.Context, n int) ([]dto.UploadSummary, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.summaries[:min(n, len(h.summaries))]), nil
}

func (h *stubHistory) last() dto.UploadSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.summaries[len(h.summaries)-1]
}

var _ repository.UploadHistoryRepository = (*stubHistory)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DBDriver:       infra.DriverSQLite,
		DatabaseURL:    "file:" + filepath.Join(t.TempDir(), "bom.db") + "?_foreign_keys=on&_busy_timeout=5000",
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
		DBAutoMigrate:  true,
	}
	db, err := infra.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.CloseDatabase(db) })
	return db
}
