package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/cache"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/config"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/handlers"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/logger"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/routes"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/services"
	"github.com/octaleadsprivatelimited-cloud/housesadda2-sub000/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		zlog.Fatal("store connect failed", zap.Error(err))
	}
	defer st.Close(context.Background())

	ch := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL, zlog)
	defer ch.Close()

	resolver := services.NewResolver(st, zlog, cfg.ResolverScanLimit)
	allocator := services.NewAllocator(st)
	searcher := services.NewSearcher(st, resolver, zlog, cfg.SearchBuffer, cfg.SearchMaxFetch)
	assembler := services.NewAssembler(st, zlog)
	mutator := services.NewMutator(st, resolver, allocator, zlog,
		cfg.MaxImagesPerProperty, cfg.MaxImageBytes)

	props := handlers.NewPropertyController(st, searcher, assembler, mutator, ch, zlog, cfg.IsProduction())
	locations := handlers.NewLocationController(st, ch, zlog, cfg.IsProduction())
	types := handlers.NewTypeController(st, ch, zlog, cfg.IsProduction())

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	routes.RegisterRoutes(e, props, locations, types, cfg.JWTSecret)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
