package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jazzyjizz/candycommerce/config"
	"github.com/jazzyjizz/candycommerce/internal/adminapi"
	"github.com/jazzyjizz/candycommerce/internal/app"
)

var (
	configFile = flag.String("c", "candycommerce.yml", "config file path")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		panic(err)
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		zap.S().Fatalf("application init failed: %v", err)
	}
	defer application.Release()

	server := adminapi.NewServer(cfg, application.Shop(), application.ProductCache(), application.Store())

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalf("server error: %v", err)
		}
	}()
	zap.S().Infof("candycommerce listening on %s:%d", cfg.Web.Host, cfg.Web.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorf("server shutdown error: %v", err)
	}
}
