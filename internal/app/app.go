package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jazzyjizz/candycommerce/config"
	"github.com/jazzyjizz/candycommerce/internal/domain"
	"github.com/jazzyjizz/candycommerce/internal/shop"
	"github.com/jazzyjizz/candycommerce/internal/store"
	"github.com/jazzyjizz/candycommerce/internal/store/boltstore"
	"github.com/jazzyjizz/candycommerce/internal/store/gormstore"
	"github.com/jazzyjizz/candycommerce/internal/store/memstore"
)

type Application struct {
	appConfig *config.AppConfig
	bus       EventBus.Bus
	gormDB    *gorm.DB
	bolt      *boltstore.Store
	dataStore store.Store
	shopSvc   *shop.Service
	cache     *shop.ProductCache
	sched     *cron.Cron
}

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() store.Store {
	return a.dataStore
}

func (a *Application) Shop() *shop.Service {
	return a.shopSvc
}

func (a *Application) ProductCache() *shop.ProductCache {
	return a.cache
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

// OverrideStore replaces the application's store (used in tests).
func (a *Application) OverrideStore(s store.Store) {
	a.dataStore = s
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	a.bus = EventBus.New()

	if err := a.initStore(cfg); err != nil {
		return err
	}
	zap.S().Infof("store ready, type: %s", cfg.Database.Type)

	a.shopSvc = shop.NewService(a.dataStore, a.dataStore)
	if err := a.shopSvc.Rebuild(context.Background()); err != nil {
		zap.L().Error("counter rebuild failed", zap.Error(err))
	}

	a.cache = shop.NewProductCache(a.dataStore, a.bus)

	a.checkCatalog()
	a.initJob()
	return nil
}

// initLogger Initialize zap logger
func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// initStore selects the store backend by config: memory, bolt or postgres.
func (a *Application) initStore(cfg *config.AppConfig) error {
	switch cfg.Database.Type {
	case "postgres":
		db, err := a.openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		a.gormDB = db
		if err := a.MigrateDB(); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
		a.dataStore = gormstore.NewStore(db, a.bus)
	case "bolt":
		path := filepath.Join(cfg.System.Workdir, "candycommerce.db")
		bs, err := boltstore.Open(path, a.bus)
		if err != nil {
			return err
		}
		a.bolt = bs
		a.dataStore = bs
	default:
		a.dataStore = memstore.NewStore(a.bus)
	}
	return nil
}

func (a *Application) openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	return db, nil
}

func (a *Application) MigrateDB() error {
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.cache != nil {
		a.cache.Stop()
	}
	if a.bolt != nil {
		_ = a.bolt.Close()
	}
	_ = zap.L().Sync()
}
