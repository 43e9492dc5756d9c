// internal/metrics/metrics.go
package metrics

import (
    "github.com/prometheus/client_golang/prometheus"
)

// Sink implements service.EventSink on Prometheus counters. Labels stay low
// cardinality: the sentiment label, never the free-text phrase.
type Sink struct {
    cacheHits      prometheus.Counter
    cacheMisses    prometheus.Counter
    postsScored    *prometheus.CounterVec
    postsPersisted prometheus.Counter
    failures       prometheus.Counter
}

func NewSink(reg prometheus.Registerer) *Sink {
    s := &Sink{
        cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
            Name: "monitor_cache_hits_total",
            Help: "Monitor requests answered from the post store.",
        }),
        cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
            Name: "monitor_cache_misses_total",
            Help: "Monitor requests that had to synthesize posts.",
        }),
        postsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
            Name: "monitor_posts_scored_total",
            Help: "Posts scored by the sentiment pipeline, per label.",
        }, []string{"label"}),
        postsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
            Name: "monitor_posts_persisted_total",
            Help: "Posts written to the post store.",
        }),
        failures: prometheus.NewCounter(prometheus.CounterOpts{
            Name: "monitor_failures_total",
            Help: "Monitor runs that ended in an error.",
        }),
    }
    reg.MustRegister(s.cacheHits, s.cacheMisses, s.postsScored, s.postsPersisted, s.failures)
    return s
}

func (s *Sink) CacheHit(phrase string, count int) { s.cacheHits.Inc() }

func (s *Sink) CacheMiss(phrase string) { s.cacheMisses.Inc() }

func (s *Sink) PostScored(phrase, label string) { s.postsScored.WithLabelValues(label).Inc() }

func (s *Sink) PostsPersisted(phrase string, count int) {
    s.postsPersisted.Add(float64(count))
}

func (s *Sink) MonitorFailed(phrase string, err error) { s.failures.Inc() }
