package dto

import (
	"time"

	"github.com/brimesh123/search-engine/internal/model"
)

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ItemResponse is a main or child item row. It keeps the snake_case column
// names the web client reads.
type ItemResponse struct {
	ItemNo   string `json:"item_no"`
	ItemName string `json:"item_name"`
}

type BOMChildResponse struct {
	ChildItemNo   string         `json:"child_item_no"`
	ChildItemName string         `json:"child_item_name"`
	Quantity      int            `json:"quantity"`
	ItemRelation  model.Relation `json:"item_relation"`
}

type BOMResponse struct {
	MainItem        ItemResponse       `json:"mainItem"`
	ChildItems      []BOMChildResponse `json:"childItems"`
	TotalComponents int                `json:"totalComponents"`
	TotalQuantity   int                `json:"totalQuantity"`
}

// ─── Report ──────────────────────────────────────────────────────────────────

type ReportItem struct {
	ItemNo   string `json:"itemNo"`
	ItemName string `json:"itemName"`
}

type ReportComponent struct {
	ItemNo   string         `json:"itemNo"`
	ItemName string         `json:"itemName"`
	Quantity int            `json:"quantity"`
	Relation model.Relation `json:"relation"`
}

type ReportSummary struct {
	TotalComponents int `json:"totalComponents"`
	TotalQuantity   int `json:"totalQuantity"`
}

type BOMReport struct {
	Title       string            `json:"title"`
	MainItem    ReportItem        `json:"mainItem"`
	Components  []ReportComponent `json:"components"`
	Summary     ReportSummary     `json:"summary"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// ─── Where-used ──────────────────────────────────────────────────────────────

type WhereUsedParent struct {
	MainItemNo   string         `json:"main_item_no"`
	MainItemName string         `json:"main_item_name"`
	Quantity     int            `json:"quantity"`
	ItemRelation model.Relation `json:"item_relation"`
}

type WhereUsedResponse struct {
	ChildItem  ItemResponse      `json:"childItem"`
	UsedIn     []WhereUsedParent `json:"usedIn"`
	TotalUsage int               `json:"totalUsage"`
}

// ─── Query params ────────────────────────────────────────────────────────────

type SearchQuery struct {
	Query string `form:"query" validate:"max=128"`
}
