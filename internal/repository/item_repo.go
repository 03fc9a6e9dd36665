package repository

import (
	"context"
	"strings"

	"github.com/brimesh123/search-engine/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository defines the data access contract for main items, child items
// and the relationships between them. Services depend on this interface, not
// on the concrete GORM implementation, enabling unit testing via stubs.
type ItemRepository interface {
	ListMainItems(ctx context.Context) ([]model.MainItem, error)
	SearchMainItems(ctx context.Context, query string, limit int) ([]model.MainItem, error)
	FindMainItem(ctx context.Context, itemNo string) (*model.MainItem, error)
	FindChildItem(ctx context.Context, itemNo string) (*model.ChildItem, error)
	ListBOMLines(ctx context.Context, mainItemNo string) ([]model.BOMLine, error)
	ListWhereUsed(ctx context.Context, childItemNo string) ([]model.WhereUsedLine, error)

	// Used inside transactions: callers must pass the tx instance
	UpsertMainItemTx(tx *gorm.DB, item *model.MainItem) error
	UpsertChildItemTx(tx *gorm.DB, item *model.ChildItem) error
	UpsertRelationshipTx(tx *gorm.DB, rel *model.ItemRelationship) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) ListMainItems(ctx context.Context) ([]model.MainItem, error) {
	var items []model.MainItem
	err := r.db.WithContext(ctx).Order("item_no ASC").Find(&items).Error
	return items, err
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting rules
// in any of the supported dialects.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *itemRepo) SearchMainItems(ctx context.Context, query string, limit int) ([]model.MainItem, error) {
	var items []model.MainItem
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(item_no) LIKE ? ESCAPE '!' OR LOWER(item_name) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("item_no ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *itemRepo) FindMainItem(ctx context.Context, itemNo string) (*model.MainItem, error) {
	var item model.MainItem
	err := r.db.WithContext(ctx).Where("item_no = ?", itemNo).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindChildItem(ctx context.Context, itemNo string) (*model.ChildItem, error) {
	var item model.ChildItem
	err := r.db.WithContext(ctx).Where("item_no = ?", itemNo).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) ListBOMLines(ctx context.Context, mainItemNo string) ([]model.BOMLine, error) {
	var lines []model.BOMLine
	err := r.db.WithContext(ctx).
		Table("item_relationships AS ir").
		Select("ir.child_item_no, ci.item_name AS child_item_name, ir.quantity, ir.item_relation").
		Joins("JOIN child_items ci ON ir.child_item_no = ci.item_no").
		Where("ir.main_item_no = ?", mainItemNo).
		Order("ir.child_item_no ASC").
		Scan(&lines).Error
	return lines, err
}

func (r *itemRepo) ListWhereUsed(ctx context.Context, childItemNo string) ([]model.WhereUsedLine, error) {
	var lines []model.WhereUsedLine
	err := r.db.WithContext(ctx).
		Table("item_relationships AS ir").
		Select("ir.main_item_no, mi.item_name AS main_item_name, ir.quantity, ir.item_relation").
		Joins("JOIN main_items mi ON ir.main_item_no = mi.item_no").
		Where("ir.child_item_no = ?", childItemNo).
		Order("ir.main_item_no ASC").
		Scan(&lines).Error
	return lines, err
}

// Upserts: PostgreSQL and SQLite render ON CONFLICT (...) DO UPDATE, MySQL
// renders ON DUPLICATE KEY UPDATE from the same clause.

func (r *itemRepo) UpsertMainItemTx(tx *gorm.DB, item *model.MainItem) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_no"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_name", "updated_at"}),
	}).Create(item).Error
}

func (r *itemRepo) UpsertChildItemTx(tx *gorm.DB, item *model.ChildItem) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_no"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_name", "updated_at"}),
	}).Create(item).Error
}

func (r *itemRepo) UpsertRelationshipTx(tx *gorm.DB, rel *model.ItemRelationship) error {
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "main_item_no"}, {Name: "child_item_no"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "item_relation", "updated_at"}),
	}).Create(rel).Error
}

func (r *itemRepo) DB() *gorm.DB { return r.db }
