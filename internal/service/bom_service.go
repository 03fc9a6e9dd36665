package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/model"
	"github.com/brimesh123/search-engine/internal/repository"

	"gorm.io/gorm"
)

// DefaultSearchLimit caps SearchMainItems results.
const DefaultSearchLimit = 10

// BOMService defines the read side: item listing, search and BOM assembly.
// None of the operations opens a transaction.
type BOMService interface {
	ListMainItems(ctx context.Context) ([]dto.ItemResponse, error)
	SearchMainItems(ctx context.Context, query string) ([]dto.ItemResponse, error)
	GetBOM(ctx context.Context, itemNo string) (*dto.BOMResponse, error)
	GetBOMReport(ctx context.Context, itemNo string) (*dto.BOMReport, error)
	WhereUsed(ctx context.Context, childItemNo string) (*dto.WhereUsedResponse, error)
}

type bomService struct {
	repo        repository.ItemRepository
	reportTitle string
	searchLimit int
	now         func() time.Time
}

// NewBOMService builds the query service. Zero values fall back to defaults.
func NewBOMService(repo repository.ItemRepository, reportTitle string, searchLimit int) BOMService {
	if reportTitle == "" {
		reportTitle = "Bill of Materials Report"
	}
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &bomService{repo: repo, reportTitle: reportTitle, searchLimit: searchLimit, now: time.Now}
}

func mapMainItem(m model.MainItem) dto.ItemResponse {
	return dto.ItemResponse{ItemNo: m.ItemNo, ItemName: m.ItemName}
}

func mapMainItems(items []model.MainItem) []dto.ItemResponse {
	result := make([]dto.ItemResponse, 0, len(items))
	for _, m := range items {
		result = append(result, mapMainItem(m))
	}
	return result
}

func (s *bomService) ListMainItems(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.repo.ListMainItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list main items: %w", err)
	}
	return mapMainItems(items), nil
}

func (s *bomService) SearchMainItems(ctx context.Context, query string) ([]dto.ItemResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.ItemResponse{}, nil
	}
	items, err := s.repo.SearchMainItems(ctx, query, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search main items: %w", err)
	}
	return mapMainItems(items), nil
}

func (s *bomService) findMainItem(ctx context.Context, itemNo string) (*model.MainItem, error) {
	m, err := s.repo.FindMainItem(ctx, itemNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("main item %q: %w", itemNo, ErrNotFound)
		}
		return nil, fmt.Errorf("find main item: %w", err)
	}
	return m, nil
}

func (s *bomService) GetBOM(ctx context.Context, itemNo string) (*dto.BOMResponse, error) {
	m, err := s.findMainItem(ctx, itemNo)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.ListBOMLines(ctx, m.ItemNo)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}

	resp := &dto.BOMResponse{
		MainItem:        mapMainItem(*m),
		ChildItems:      make([]dto.BOMChildResponse, 0, len(lines)),
		TotalComponents: len(lines),
	}
	for _, l := range lines {
		resp.ChildItems = append(resp.ChildItems, dto.BOMChildResponse{
			ChildItemNo:   l.ChildItemNo,
			ChildItemName: l.ChildItemName,
			Quantity:      l.Quantity,
			ItemRelation:  l.ItemRelation,
		})
		resp.TotalQuantity += l.Quantity
	}
	return resp, nil
}

// GetBOMReport reshapes GetBOM into the downloadable report document.
func (s *bomService) GetBOMReport(ctx context.Context, itemNo string) (*dto.BOMReport, error) {
	bom, err := s.GetBOM(ctx, itemNo)
	if err != nil {
		return nil, err
	}

	report := &dto.BOMReport{
		Title:      s.reportTitle,
		MainItem:   dto.ReportItem{ItemNo: bom.MainItem.ItemNo, ItemName: bom.MainItem.ItemName},
		Components: make([]dto.ReportComponent, 0, len(bom.ChildItems)),
		Summary: dto.ReportSummary{
			TotalComponents: bom.TotalComponents,
			TotalQuantity:   bom.TotalQuantity,
		},
		GeneratedAt: s.now().UTC(),
	}
	for _, c := range bom.ChildItems {
		report.Components = append(report.Components, dto.ReportComponent{
			ItemNo:   c.ChildItemNo,
			ItemName: c.ChildItemName,
			Quantity: c.Quantity,
			Relation: c.ItemRelation,
		})
	}
	return report, nil
}

func (s *bomService) WhereUsed(ctx context.Context, childItemNo string) (*dto.WhereUsedResponse, error) {
	child, err := s.repo.FindChildItem(ctx, childItemNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("child item %q: %w", childItemNo, ErrNotFound)
		}
		return nil, fmt.Errorf("find child item: %w", err)
	}
	lines, err := s.repo.ListWhereUsed(ctx, child.ItemNo)
	if err != nil {
		return nil, fmt.Errorf("list where used: %w", err)
	}

	resp := &dto.WhereUsedResponse{
		ChildItem: dto.ItemResponse{ItemNo: child.ItemNo, ItemName: child.ItemName},
		UsedIn:    make([]dto.WhereUsedParent, 0, len(lines)),
	}
	for _, l := range lines {
		resp.UsedIn = append(resp.UsedIn, dto.WhereUsedParent{
			MainItemNo:   l.MainItemNo,
			MainItemName: l.MainItemName,
			Quantity:     l.Quantity,
			ItemRelation: l.ItemRelation,
		})
		resp.TotalUsage += l.Quantity
	}
	return resp, nil
}
