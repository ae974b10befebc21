package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/syncflow/syncflow/internal/api"
	"github.com/syncflow/syncflow/internal/engine"
	"github.com/syncflow/syncflow/internal/mq"
	"github.com/syncflow/syncflow/internal/node"
	"github.com/syncflow/syncflow/internal/nodes"
	"github.com/syncflow/syncflow/internal/repo"
	"github.com/syncflow/syncflow/internal/runner"
	"github.com/syncflow/syncflow/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncflow_api_http_requests_total",
		Help: "Total HTTP requests handled by syncflow_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting syncflow-api")

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	workflowRepo := repo.NewWorkflowRepo(pool)
	runRepo := repo.NewRunRepo(pool)

	// Реестр встроенных узлов
	registry := node.NewRegistry()
	nodes.RegisterBuiltins(registry)
	logger.Info("registered node types", "count", registry.Count())

	// RabbitMQ опционален: без него события запусков просто не публикуются
	var events engine.Events
	conn, err := mq.NewConnection(mq.DefaultURL(), logger)
	if err != nil {
		logger.Warn("message queue unavailable, run events disabled", "error", err)
	} else {
		defer conn.Close()
		if err := mq.SetupTopology(context.Background(), conn); err != nil {
			logger.Error("failed to setup mq topology", "error", err)
			os.Exit(1)
		}
		events = mq.NewRunEvents(mq.NewPublisher(conn, logger), logger)
		logger.Info("connected to message queue")
	}

	// Движок выполнения
	executor := engine.New(engine.Config{
		MaxWorkers: envInt("MAX_WORKERS", 0),
		WorkDir:    os.Getenv("WORK_DIR"),
		Events:     events,
		Logger:     logger,
	})

	// Runner запускает runs асинхронно и пишет статусы в базу
	rn := runner.New(runner.Config{
		Registry: registry,
		Runs:     runRepo,
		Executor: executor,
		Logger:   logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		WorkflowRepo: workflowRepo,
		RunRepo:      runRepo,
		Registry:     registry,
		Runner:       rn,
		Logger:       logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	// Даём активным runs дописать статусы в базу
	rn.Wait()

	logger.Info("stopped")
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
