package router

import (
	"strings"
	"time"

	"github.com/brimesh123/search-engine/internal/config"
	"github.com/brimesh123/search-engine/internal/handler"
	"github.com/brimesh123/search-engine/internal/infra"
	"github.com/brimesh123/search-engine/internal/middleware"
	"github.com/brimesh123/search-engine/internal/repository"
	"github.com/brimesh123/search-engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil, which disables the upload history.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(splitOrigins(cfg.CORSAllowedOrigins)))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	itemRepo := repository.NewItemRepository(db)
	history := repository.NewUploadHistoryRepository(rdb, cfg.UploadHistorySize)
	if rdb != nil {
		history = repository.WithBreaker(history, infra.NewBreaker(infra.BreakerConfig{}))
	}

	// ── Services ─────────────────────────────────────────────────────────────
	bomSvc := service.NewBOMService(itemRepo, cfg.ReportTitle, cfg.SearchLimit)
	ingestSvc := service.NewIngestionService(itemRepo, history)

	// ── Handlers ─────────────────────────────────────────────────────────────
	bomH := handler.NewBOMHandler(bomSvc)
	reportsH := handler.NewReportsHandler(bomSvc)
	uploadH := handler.NewUploadHandler(ingestSvc, history, cfg.MaxUploadBytes())

	// ── Routes ───────────────────────────────────────────────────────────────
	api := r.Group("/api")
	{
		api.GET("/health", handler.Health(db, rdb))

		api.GET("/main-items", bomH.ListMainItems)
		api.GET("/main-items/:itemNo/bom", bomH.GetBOM)
		api.GET("/search/main-items", bomH.SearchMainItems)
		api.GET("/child-items/:itemNo/where-used", bomH.WhereUsed)

		api.GET("/reports/bom/:itemNo", reportsH.GetBOMReport)

		api.POST("/upload-excel", uploadH.UploadExcel)
		api.GET("/upload-template", uploadH.Template)
		api.GET("/uploads/recent", uploadH.RecentUploads)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
