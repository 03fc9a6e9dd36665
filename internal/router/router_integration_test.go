//go:build integration

package router

// End-to-end tests against real PostgreSQL and Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/brimesh123/search-engine/internal/config"
	"github.com/brimesh123/search-engine/internal/dto"
	"github.com/brimesh123/search-engine/internal/infra"
	"github.com/brimesh123/search-engine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupPostgresEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("item_management"),
		tcPostgres.WithUsername("bom"),
		tcPostgres.WithPassword("bom"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		DBDriver:           infra.DriverPostgres,
		DatabaseURL:        pgURL,
		DBMaxOpenConns:     10,
		DBMaxIdleConns:     2,
		DBAutoMigrate:      true,
		RedisURL:           rdURL,
		UploadHistorySize:  10,
		MaxUploadMB:        5,
		CORSAllowedOrigins: "*",
	}

	db, err := infra.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.CloseDatabase(db) })

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return &testEnv{engine: New(cfg, db, rdb), db: db}
}

func TestPostgres_RowFailureKeepsBatchAlive(t *testing.T) {
	env := setupPostgresEnv(t)

	// Validation catches every malformed cell, so reject row 2 in the store itself.
	require.NoError(t, env.db.Exec(`ALTER TABLE item_relationships ADD CONSTRAINT chk_not_banned CHECK (child_item_no <> 'BANNED')`).Error)

	csv := `Main Item No,Main Item Name,Child Item No,Child Item Name,Qty,I/R
FG-1,Bike,CP-1,Frame,1,I
FG-1,Bike,BANNED,Nope,1,I
FG-1,Bike,CP-2,Wheel,2,I
`
	w := env.do(t, uploadRequest(t, "file", "bom.csv", []byte(csv)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	up := decode[dto.UploadResponse](t, w)
	assert.Equal(t, 2, up.ProcessedItems)
	require.Len(t, up.Errors, 1)
	assert.Equal(t, 2, up.Errors[0].RowNumber)
	assert.Equal(t, "check constraint violated", up.Errors[0].Error)

	w = env.get(t, "/api/main-items/FG-1/bom")
	require.Equal(t, http.StatusOK, w.Code)
	bom := decode[dto.BOMResponse](t, w)
	assert.Equal(t, 2, bom.TotalComponents, "rows after the rejected one are committed")

	w = env.get(t, "/api/child-items/BANNED/where-used")
	assert.Equal(t, http.StatusNotFound, w.Code, "the rejected row's child upsert was rolled back to its savepoint")
}

func TestPostgres_ConcurrentIdenticalUploads(t *testing.T) {
	env := setupPostgresEnv(t)

	var b strings.Builder
	b.WriteString("Main Item No,Main Item Name,Child Item No,Child Item Name,Qty,I/R\n")
	for i := range 20 {
		fmt.Fprintf(&b, "FG-1,Bike,CP-%02d,Part %d,%d,I\n", i, i, i+1)
	}
	content := []byte(b.String())

	const uploads = 5
	var wg sync.WaitGroup
	codes := make([]int, uploads)
	for i := range uploads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = env.do(t, uploadRequest(t, "file", "bom.csv", content)).Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	var count int64
	require.NoError(t, env.db.Model(&model.ItemRelationship{}).Count(&count).Error)
	assert.EqualValues(t, 20, count, "no duplicate relationship rows")

	w := env.get(t, "/api/uploads/recent?limit=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.UploadSummary](t, w), uploads)
}

func TestPostgres_SearchEscapesWildcards(t *testing.T) {
	env := setupPostgresEnv(t)

	csv := `Main Item No,Main Item Name,Child Item No,Child Item Name
FG_1,Underscore,CP-1,Frame
FGX1,Letter,CP-1,Frame
FG%2,Percent,CP-1,Frame
`
	w := env.do(t, uploadRequest(t, "file", "bom.csv", []byte(csv)))
	require.Equal(t, http.StatusOK, w.Code)

	w = env.get(t, "/api/search/main-items?query=fg_")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"item_no":"FG_1","item_name":"Underscore"}]`, w.Body.String())

	w = env.get(t, "/api/search/main-items?query=G%25")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"item_no":"FG%2","item_name":"Percent"}]`, w.Body.String())
}
