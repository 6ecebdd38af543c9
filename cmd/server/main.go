package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rayon/internal/auth"
	"rayon/internal/config"
	"rayon/internal/dashboard"
	"rayon/internal/infrastructure/cache"
	"rayon/internal/infrastructure/logger"
	"rayon/internal/infrastructure/mysql"
	"rayon/internal/order"
	"rayon/internal/product"
	"rayon/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "rayon",
		Usage: "perfume storefront order service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "internal/config/config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"RAYON_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply schema migrations",
				Subcommands: []*cli.Command{
					{Name: "up", Action: migrateAction(mysql.MigrateUp)},
					{Name: "down", Action: migrateAction(mysql.MigrateDown)},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func bootstrap(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		_ = zapLogger.Sync()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	return &runtime{cfg: cfg, logger: zapLogger, db: db}, nil
}

func (rt *runtime) close() {
	_ = rt.db.Close()
	_ = rt.logger.Sync()
}

func migrateAction(direction mysql.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := bootstrap(c)
		if err != nil {
			return err
		}
		defer rt.close()

		return mysql.Migrate(rt.db.DB, direction, rt.logger)
	}
}

func serve(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer rt.close()

	statsCache := cache.NewMemory(rt.cfg.Cache.StatsTTL, rt.cfg.Cache.CleanupInterval)

	orderModule := order.NewModule(rt.db, rt.cfg, statsCache, rt.logger)
	handlers := server.Handlers{
		Products:  product.NewModule(rt.db, rt.logger),
		Orders:    orderModule.Controller,
		Dashboard: dashboard.NewModule(rt.db, orderModule.Stats, statsCache, rt.cfg.Cache.StatsTTL, rt.logger),
	}

	router := server.NewRouter(handlers, auth.NewMySQLTokenRepository(rt.db, rt.logger), rt.db, rt.logger)
	srv := server.New(rt.cfg.Server, router, rt.logger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		rt.logger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	rt.logger.Info("server stopped gracefully")
	return nil
}
