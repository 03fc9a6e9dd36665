// Package cli implements bomctl, the command line companion of the BOM
// service. It talks to the same database through the same services.
package cli

import (
	"fmt"
	"os"

	"github.com/brimesh123/search-engine/internal/config"
	"github.com/brimesh123/search-engine/internal/infra"
	"github.com/brimesh123/search-engine/internal/repository"
	"github.com/brimesh123/search-engine/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds what a subcommand needs once the root pre-run has connected.
type app struct {
	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client

	driver      string
	databaseURL string
	verbose     bool
}

func (a *app) itemRepo() repository.ItemRepository { return repository.NewItemRepository(a.db) }

func (a *app) bomService() service.BOMService {
	return service.NewBOMService(a.itemRepo(), a.cfg.ReportTitle, a.cfg.SearchLimit)
}

func (a *app) ingestionService() service.IngestionService {
	history := repository.NewUploadHistoryRepository(a.rdb, a.cfg.UploadHistorySize)
	return service.NewIngestionService(a.itemRepo(), history)
}

// connect loads configuration and opens the database (and Redis when configured).
func (a *app) connect(cmd *cobra.Command, _ []string) error {
	// .env is optional
	_ = godotenv.Load()

	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.driver != "" {
		cfg.DBDriver = a.driver
	}
	if a.databaseURL != "" {
		cfg.DatabaseURL = a.databaseURL
	}
	a.cfg = cfg

	if a.db, err = infra.NewDatabase(cfg); err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	if a.rdb, err = infra.NewRedis(cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, upload history disabled")
		a.rdb = nil
	}
	return nil
}

func (a *app) close(*cobra.Command, []string) error {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		return infra.CloseDatabase(a.db)
	}
	return nil
}

// NewRootCmd builds the bomctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "bomctl",
		Short: "Import and query bills of materials",
		Long: `bomctl loads BOM spreadsheets and answers BOM queries against the
database configured through the environment (or a .env file).

Examples:

  bomctl import parts.xlsx
  bomctl bom FG-1000
  bomctl search bike
  bomctl where-used CP-2000
  bomctl template bom-template.xlsx
`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.connect,
		PersistentPostRunE: a.close,
	}
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "database driver (postgres, mysql, sqlite); overrides DB_DRIVER")
	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", "", "database DSN; overrides DATABASE_URL")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newImportCmd(a),
		newBOMCmd(a),
		newSearchCmd(a),
		newWhereUsedCmd(a),
		newTemplateCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
