package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/model"
	"github.com/brimesh123/search-engine/internal/repository"
	"github.com/brimesh123/search-engine/internal/sheet"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// IngestionService loads spreadsheet rows into the item store.
type IngestionService interface {
	Ingest(ctx context.Context, fileName string, rows []sheet.Row) (*dto.UploadResponse, error)
}

type ingestionService struct {
	repo    repository.ItemRepository
	history repository.UploadHistoryRepository
	now     func() time.Time
}

func NewIngestionService(repo repository.ItemRepository, history repository.UploadHistoryRepository) IngestionService {
	return &ingestionService{repo: repo, history: history, now: time.Now}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ingestResult is the fold state of one upload. Its methods return a new
// value and never mutate the receiver's backing array.
type ingestResult struct {
	succeeded int
	failed    []dto.RowError
}

func (r ingestResult) succeed() ingestResult {
	r.succeeded++
	return r
}

func (r ingestResult) fail(e dto.RowError) ingestResult {
	r.failed = append(slices.Clip(r.failed), e)
	return r
}

// ── Ingest ────────────────────────────────────────────────────────────────────
// One transaction per upload:
//   1. For each row: validate, then upsert main item, child item, relationship
//      inside a savepoint
//   2. A rejected row is recorded and the loop continues
//   3. A systemic error (lost connection, cancelled request) aborts the loop and
//      rolls back every row of the upload
//   4. COMMIT, then record the outcome in the upload history

func (s *ingestionService) Ingest(ctx context.Context, fileName string, rows []sheet.Row) (*dto.UploadResponse, error) {
	uploadID := uuid.NewString()
	started := s.now()
	logger := log.With().
		Str("upload_id", uploadID).
		Str("file", fileName).
		Int("total_rows", len(rows)).
		Logger()

	var result ingestResult
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		result, err = s.fold(ctx, tx, rows, logger)
		return err
	})

	summary := dto.UploadSummary{
		UploadID:   uploadID,
		FileName:   fileName,
		TotalRows:  len(rows),
		StartedAt:  started.UTC(),
		DurationMS: s.now().Sub(started).Milliseconds(),
	}

	if err != nil {
		summary.Status = dto.UploadRolledBack
		summary.Error = err.Error()
		s.record(ctx, summary, logger)
		logger.Error().Err(err).Msg("upload rolled back")
		return nil, fmt.Errorf("ingest %s: %w", fileName, err)
	}

	summary.Status = dto.UploadCommitted
	summary.ProcessedItems = result.succeeded
	summary.FailedRows = len(result.failed)
	s.record(ctx, summary, logger)

	logger.Info().
		Int("processed", result.succeeded).
		Int("failed", len(result.failed)).
		Int64("duration_ms", summary.DurationMS).
		Msg("upload committed")

	resp := &dto.UploadResponse{
		Success:        true,
		UploadID:       uploadID,
		ProcessedItems: result.succeeded,
		TotalRows:      len(rows),
	}
	if len(result.failed) > 0 {
		resp.Errors = result.failed
	}
	return resp, nil
}

func (s *ingestionService) fold(ctx context.Context, tx *gorm.DB, rows []sheet.Row, logger zerolog.Logger) (ingestResult, error) {
	var acc ingestResult
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		rec, err := dto.NewBOMRow(row.Cells)
		if err != nil {
			acc = acc.fail(rowError(row, err.Error()))
			continue
		}

		if err := s.upsertRow(tx, rec); err != nil {
			if repository.IsSystemic(err) {
				return acc, fmt.Errorf("row %d: %w", row.Number, err)
			}
			logger.Warn().Err(err).Int("row", row.Number).Msg("row rejected")
			acc = acc.fail(rowError(row, repository.Describe(err)))
			continue
		}
		acc = acc.succeed()
	}
	return acc, nil
}

// upsertRow writes both endpoint items before the relationship. The writes
// share a savepoint so a rejected row leaves the batch transaction usable.
func (s *ingestionService) upsertRow(tx *gorm.DB, rec dto.BOMRow) error {
	write := func(tx *gorm.DB) error {
		if err := s.repo.UpsertMainItemTx(tx, &model.MainItem{ItemNo: rec.MainItemNo, ItemName: rec.MainItemName}); err != nil {
			return fmt.Errorf("upsert main item: %w", err)
		}
		if err := s.repo.UpsertChildItemTx(tx, &model.ChildItem{ItemNo: rec.ChildItemNo, ItemName: rec.ChildItemName}); err != nil {
			return fmt.Errorf("upsert child item: %w", err)
		}
		if err := s.repo.UpsertRelationshipTx(tx, &model.ItemRelationship{
			MainItemNo:   rec.MainItemNo,
			ChildItemNo:  rec.ChildItemNo,
			Quantity:     rec.Quantity,
			ItemRelation: rec.Relation,
		}); err != nil {
			return fmt.Errorf("upsert relationship: %w", err)
		}
		return nil
	}
	if tx == nil {
		return write(nil)
	}
	return tx.Transaction(write)
}

// record stores the summary. History is best effort and outlives a cancelled request.
func (s *ingestionService) record(ctx context.Context, summary dto.UploadSummary, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := s.history.Record(ctx, summary); err != nil {
		logger.Warn().Err(err).Msg("failed to record upload history")
	}
}

func rowError(row sheet.Row, msg string) dto.RowError {
	return dto.RowError{RowNumber: row.Number, Row: row.Cells, Error: msg}
}
