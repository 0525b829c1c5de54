package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"repairshop/cmd"
	httpin "repairshop/internal/adapters/in/http"
	"repairshop/internal/adapters/out/catalog"
	"repairshop/internal/adapters/out/postgres"
	"repairshop/internal/adapters/out/rabbitmq"
	"repairshop/internal/pkg/metrics"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(loadConfig func() (cmd.Config, error)) *cobra.Command {
	var migrateOnStart bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(c.Context(), config, migrateOnStart)
		},
	}
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", true, "apply pending migrations before serving")

	return serveCmd
}

func serve(ctx context.Context, config cmd.Config, migrateOnStart bool) error {
	logger := newLogger(config)
	slog.SetDefault(logger)

	gormDB, err := openDatabase(config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if migrateOnStart {
		if err := postgres.Migrate(sqlDB); err != nil {
			return err
		}
	}

	rules, err := catalog.NewLoader().LoadRuleTable(config.StatusCatalogPath)
	if err != nil {
		return err
	}

	var publisher *rabbitmq.Publisher
	if config.RabbitMQURL != "" {
		conn, err := rabbitmq.Dial(config.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if publisher, err = rabbitmq.NewPublisher(conn.Channel(), logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "RABBITMQ_URL not set, notifications disabled")
	}

	m := metrics.New()
	app, err := cmd.NewCompositionRoot(config, gormDB, rules, m, publisher, logger)
	if err != nil {
		return err
	}

	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	docJSON, err := httpin.RegisterSwaggerDoc(doc)
	if err != nil {
		return err
	}

	server := app.CreateHTTPServer()
	router := httpin.NewRouter(server, httpin.RouterConfig{
		Metrics:     m.Handler(),
		OpenAPIJSON: docJSON,
		Logger:      logger,
	})

	jobManager := app.CreateJobManager(server)
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)
		logger.InfoContext(ctx, "HTTP server listening", "addr", addr)
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return router.Shutdown(shutdownCtx)
}
