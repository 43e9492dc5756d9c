package service

import (
    "context"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/unclebandit/socialpulse-backend/internal/queue"
)

// Worker drains monitor jobs from a channel and runs the pipeline for each.
// Failures are logged and the worker moves on; the pipeline's typed errors
// make the log lines distinguishable.
type Worker struct {
    Service *MonitorService
    Jobs    <-chan queue.MonitorJob
    Log     *logrus.Logger
    Timeout time.Duration
}

func NewWorker(svc *MonitorService, jobs <-chan queue.MonitorJob, log *logrus.Logger) *Worker {
    return &Worker{
        Service: svc,
        Jobs:    jobs,
        Log:     log,
        Timeout: 2 * time.Minute,
    }
}

// Start processes jobs until the channel closes.
func (w *Worker) Start() {
    for job := range w.Jobs {
        w.Run(job)
    }
}

// MonitorTopic is the queue the server publishes monitor jobs to.
const MonitorTopic = "monitor_runs"

// StartMonitorSubscriber attaches the pipeline to a queue topic. Jobs arrive
// either as MonitorJob values (in-memory queue) or JSON bytes (RabbitMQ).
func StartMonitorSubscriber(q queue.Queue, svc *MonitorService, log *logrus.Logger) error {
    w := &Worker{Service: svc, Log: log, Timeout: 2 * time.Minute}
    return q.Subscribe(MonitorTopic, func(payload any) error {
        job, err := queue.DecodeMonitorJob(payload)
        if err != nil {
            log.WithField("error", err).Warn("dropping malformed monitor job")
            return nil // no retry for garbage payloads
        }
        w.Run(job)
        return nil
    })
}

// Run executes one monitor job over its trailing window.
func (w *Worker) Run(job queue.MonitorJob) {
    end := time.Now().UTC()
    start := end.Add(-time.Duration(job.WindowMinutes) * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
    defer cancel()

    posts, err := w.Service.MonitorKeywords(ctx, job.Keywords, start, end, job.Source)
    if err != nil {
        w.Log.WithFields(logrus.Fields{
            "keywords": job.Keywords,
            "error":    err,
        }).Error("monitor job failed")
        return
    }

    w.Log.WithFields(logrus.Fields{
        "keywords": job.Keywords,
        "posts":    len(posts),
    }).Info("monitor job completed")
}
