// cmd/server/main.go
package main

import (
    "fmt"
    "math/rand"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/cors"
    "github.com/joho/godotenv"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/sirupsen/logrus"

    "github.com/unclebandit/socialpulse-backend/internal/config"
    "github.com/unclebandit/socialpulse-backend/internal/controller"
    "github.com/unclebandit/socialpulse-backend/internal/db"
    "github.com/unclebandit/socialpulse-backend/internal/generator"
    "github.com/unclebandit/socialpulse-backend/internal/handler"
    "github.com/unclebandit/socialpulse-backend/internal/metrics"
    "github.com/unclebandit/socialpulse-backend/internal/queue"
    "github.com/unclebandit/socialpulse-backend/internal/repository"
    "github.com/unclebandit/socialpulse-backend/internal/sentiment"
    "github.com/unclebandit/socialpulse-backend/internal/service"
)

func main() {
    log := logrus.New()
    log.SetFormatter(&logrus.JSONFormatter{})

    // Load .env
    if err := godotenv.Load(); err != nil {
        log.Warn("no .env file found, relying on OS environment variables")
    }

    cfg, err := config.Load()
    if err != nil {
        log.Fatalf("failed to load configuration: %v", err)
    }

    conn, err := db.Connect(cfg.Database, log)
    if err != nil {
        log.Fatalf("failed to connect to database: %v", err)
    }
    defer conn.Close()

    postRepo := &repository.PostRepository{DB: conn}
    scorer := sentiment.NewHTTPScorer(cfg.Scorer.Endpoint, cfg.Scorer.APIKey, cfg.Scorer.Language, cfg.Scorer.Timeout)
    gen := generator.New(rand.NewSource(time.Now().UnixNano()))

    registry := prometheus.NewRegistry()
    promSink := metrics.NewSink(registry)

    monitorService := &service.MonitorService{
        Posts:          postRepo,
        Scorer:         scorer,
        Generator:      gen,
        Sink:           service.MultiSink{&service.LogSink{Log: log}, promSink},
        CandidateCount: cfg.Monitor.CandidateCount,
    }

    // Prefer RabbitMQ for monitor jobs; fall back to the in-process queue so
    // the demo runs without a broker.
    var q queue.Queue
    if amqpQueue, err := queue.DialAMQP(cfg.AMQP.URL, log); err != nil {
        log.WithField("error", err).Warn("RabbitMQ unavailable, using in-memory queue")
        memQueue := queue.NewInMemoryQueue(log)
        if err := service.StartMonitorSubscriber(memQueue, monitorService, log); err != nil {
            log.Fatalf("failed to start monitor subscriber: %v", err)
        }
        q = memQueue
    } else {
        defer amqpQueue.Close()
        q = amqpQueue
    }

    monitorController := &controller.MonitorController{
        MonitorService: monitorService,
        Queue:          q,
        Config:         cfg.Monitor,
    }
    dashboardHandler := handler.NewDashboardHandler(postRepo)

    r := chi.NewRouter()
    r.Use(cors.Handler(cors.Options{
        AllowedOrigins: cfg.Server.CorsOrigins,
        AllowedMethods: []string{"GET", "POST", "OPTIONS"},
        AllowedHeaders: []string{"Accept", "Content-Type"},
    }))

    // Monitor routes
    r.Get("/monitor", monitorController.Monitor)
    r.Post("/monitor/run", monitorController.TriggerRun)

    // Dashboard routes
    r.Get("/campaigns/{campaign}/posts", dashboardHandler.ListPostsHandler)
    r.Get("/campaigns/{campaign}/stats", dashboardHandler.CampaignStatsHandler)

    r.Get("/healthz", handler.HealthzHandler)
    r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

    srv := &http.Server{
        Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
        Handler:      r,
        ReadTimeout:  cfg.Server.ReadTimeout,
        WriteTimeout: cfg.Server.WriteTimeout,
    }

    log.WithField("port", cfg.Server.Port).Info("server running")
    log.Fatal(srv.ListenAndServe())
}
