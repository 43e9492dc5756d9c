package queue

import (
    "encoding/json"
    "fmt"
    "sync"
    "time"

    "github.com/sirupsen/logrus"
)

// MonitorJob asks a worker to run the monitor pipeline for a keyword set over
// a trailing window.
type MonitorJob struct {
    Keywords      []string `json:"keywords"`
    WindowMinutes int      `json:"window_minutes"`
    Source        string   `json:"source,omitempty"`
}

// Queue interface
type Queue interface {
    Publish(topic string, payload any) error
    Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-process queue with retry, used when no broker is
// configured and in tests.
type InMemoryQueue struct {
    mu       sync.Mutex
    handlers map[string][]func(payload any) error
    Log      *logrus.Logger
}

func NewInMemoryQueue(log *logrus.Logger) *InMemoryQueue {
    if log == nil {
        log = logrus.New()
    }
    return &InMemoryQueue{
        handlers: make(map[string][]func(payload any) error),
        Log:      log,
    }
}

// jobEnvelope wraps a payload with retry info.
type jobEnvelope struct {
    Payload    any
    RetryCount int
    MaxRetries int
}

// Publish sends a message to all subscribers.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
    q.mu.Lock()
    handlers := q.handlers[topic]
    q.mu.Unlock()

    if len(handlers) == 0 {
        return fmt.Errorf("no subscribers for topic %s", topic)
    }

    job := jobEnvelope{
        Payload:    payload,
        RetryCount: 0,
        MaxRetries: 3,
    }

    for _, handler := range handlers {
        go q.processJob(handler, job)
    }

    return nil
}

// processJob handles retries with backoff.
func (q *InMemoryQueue) processJob(handler func(payload any) error, job jobEnvelope) {
    for job.RetryCount <= job.MaxRetries {
        err := handler(job.Payload)
        if err == nil {
            return // ACK
        }

        job.RetryCount++
        q.Log.WithFields(logrus.Fields{
            "attempt": job.RetryCount,
            "max":     job.MaxRetries,
            "error":   err,
        }).Warn("queue job failed")

        if job.RetryCount > job.MaxRetries {
            q.Log.WithField("max", job.MaxRetries).Error("queue job permanently failed")
            return // no requeue
        }

        time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
    }
}

// Subscribe adds a handler for a topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
    q.mu.Lock()
    defer q.mu.Unlock()

    q.handlers[topic] = append(q.handlers[topic], handler)
    return nil
}

// DecodeMonitorJob extracts a MonitorJob from a queue payload, which is a
// MonitorJob when published in-process and raw JSON when it crossed a broker.
func DecodeMonitorJob(payload any) (MonitorJob, error) {
    switch v := payload.(type) {
    case MonitorJob:
        return v, nil
    case *MonitorJob:
        return *v, nil
    case []byte:
        var job MonitorJob
        if err := json.Unmarshal(v, &job); err != nil {
            return MonitorJob{}, fmt.Errorf("decoding monitor job: %w", err)
        }
        return job, nil
    default:
        return MonitorJob{}, fmt.Errorf("unexpected monitor job payload type %T", payload)
    }
}

var _ Queue = (*InMemoryQueue)(nil)
