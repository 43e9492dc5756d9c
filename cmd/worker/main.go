// cmd/worker/main.go
package main

import (
    "math/rand"
    "time"

    "github.com/joho/godotenv"
    "github.com/sirupsen/logrus"

    "github.com/unclebandit/socialpulse-backend/internal/config"
    "github.com/unclebandit/socialpulse-backend/internal/db"
    "github.com/unclebandit/socialpulse-backend/internal/generator"
    "github.com/unclebandit/socialpulse-backend/internal/queue"
    "github.com/unclebandit/socialpulse-backend/internal/repository"
    "github.com/unclebandit/socialpulse-backend/internal/sentiment"
    "github.com/unclebandit/socialpulse-backend/internal/service"
)

func main() {
    log := logrus.New()
    log.SetFormatter(&logrus.JSONFormatter{})

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

    monitorService := &service.MonitorService{
        Posts:          postRepo,
        Scorer:         scorer,
        Generator:      gen,
        Sink:           &service.LogSink{Log: log},
        CandidateCount: cfg.Monitor.CandidateCount,
    }

    amqpQueue, err := queue.DialAMQP(cfg.AMQP.URL, log)
    if err != nil {
        log.Fatalf("failed to connect to RabbitMQ: %v", err)
    }
    defer amqpQueue.Close()

    if err := service.StartMonitorSubscriber(amqpQueue, monitorService, log); err != nil {
        log.Fatalf("failed to start monitor subscriber: %v", err)
    }

    // Timer trigger: publish the configured keyword set on a fixed interval,
    // mirroring the 15-minute scheduled run. With no keywords configured the
    // job is rejected up front instead of silently using a built-in list.
    go func() {
        ticker := time.NewTicker(cfg.Monitor.Interval)
        defer ticker.Stop()

        for range ticker.C {
            if len(cfg.Monitor.Keywords) == 0 {
                log.Error("scheduled monitor run skipped: no keywords configured")
                continue
            }
            job := queue.MonitorJob{
                Keywords:      cfg.Monitor.Keywords,
                WindowMinutes: cfg.Monitor.WindowMinutes,
            }
            if err := amqpQueue.Publish(service.MonitorTopic, job); err != nil {
                log.WithField("error", err).Error("failed to publish scheduled monitor job")
            }
        }
    }()

    log.Info("worker running, waiting for monitor jobs...")
    select {}
}
