package model

import "time"

// MainItem is a top-level assembly. ItemNo is the natural key; the row is
// created or renamed by spreadsheet ingestion and never deleted.
type MainItem struct {
	ItemNo    string `gorm:"primaryKey;size:64"`
	ItemName  string `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MainItem) TableName() string { return "main_items" }

// ChildItem is a component referenced by main items. It lives in its own key
// namespace: the same ItemNo may exist as a MainItem too.
type ChildItem struct {
	ItemNo    string `gorm:"primaryKey;size:64"`
	ItemName  string `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ChildItem) TableName() string { return "child_items" }
