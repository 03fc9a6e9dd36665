package model

import (
	"fmt"
	"strings"
	"time"
)

// Relation classifies a child reference.
type Relation string

const (
	RelationItem      Relation = "I" // physical item
	RelationReference Relation = "R" // non-physical reference
)

// ParseRelation normalizes an I/R cell. Blank defaults to RelationItem.
func ParseRelation(s string) (Relation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "I":
		return RelationItem, nil
	case "R":
		return RelationReference, nil
	default:
		return "", fmt.Errorf("invalid I/R value %q: expected I or R", s)
	}
}

// ItemRelationship links one MainItem to one ChildItem. The pair is the
// primary key, so re-ingesting it overwrites Quantity and ItemRelation.
type ItemRelationship struct {
	MainItemNo   string   `gorm:"primaryKey;size:64"`
	ChildItemNo  string   `gorm:"primaryKey;size:64;index"`
	Quantity     int      `gorm:"not null;default:1;check:chk_item_relationships_quantity,quantity > 0"`
	ItemRelation Relation `gorm:"size:1;not null;default:'I'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	MainItem  *MainItem  `gorm:"foreignKey:MainItemNo;references:ItemNo;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ChildItem *ChildItem `gorm:"foreignKey:ChildItemNo;references:ItemNo;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ItemRelationship) TableName() string { return "item_relationships" }

// BOMLine is the read projection of a relationship joined to its child item.
type BOMLine struct {
	ChildItemNo   string
	ChildItemName string
	Quantity      int
	ItemRelation  Relation
}

// WhereUsedLine is the reverse projection: a relationship joined to its main item.
type WhereUsedLine struct {
	MainItemNo   string
	MainItemName string
	Quantity     int
	ItemRelation Relation
}
