// internal/service/sink.go
package service

import "github.com/sirupsen/logrus"

// EventSink receives pipeline events. The pipeline itself never writes to the
// console; anything observable goes through here.
type EventSink interface {
    CacheHit(phrase string, count int)
    CacheMiss(phrase string)
    PostScored(phrase, label string)
    PostsPersisted(phrase string, count int)
    MonitorFailed(phrase string, err error)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) CacheHit(string, int)          {}
func (NopSink) CacheMiss(string)              {}
func (NopSink) PostScored(string, string)     {}
func (NopSink) PostsPersisted(string, int)    {}
func (NopSink) MonitorFailed(string, error)   {}

// LogSink reports pipeline events through logrus.
type LogSink struct {
    Log *logrus.Logger
}

func (s *LogSink) CacheHit(phrase string, count int) {
    s.Log.WithFields(logrus.Fields{"phrase": phrase, "count": count}).Info("monitor cache hit")
}

func (s *LogSink) CacheMiss(phrase string) {
    s.Log.WithField("phrase", phrase).Info("monitor cache miss, synthesizing posts")
}

func (s *LogSink) PostScored(phrase, label string) {
    s.Log.WithFields(logrus.Fields{"phrase": phrase, "label": label}).Debug("post scored")
}

func (s *LogSink) PostsPersisted(phrase string, count int) {
    s.Log.WithFields(logrus.Fields{"phrase": phrase, "count": count}).Info("posts persisted")
}

func (s *LogSink) MonitorFailed(phrase string, err error) {
    s.Log.WithFields(logrus.Fields{"phrase": phrase, "error": err}).Error("monitor run failed")
}

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

func (m MultiSink) CacheHit(phrase string, count int) {
    for _, s := range m {
        s.CacheHit(phrase, count)
    }
}

func (m MultiSink) CacheMiss(phrase string) {
    for _, s := range m {
        s.CacheMiss(phrase)
    }
}

func (m MultiSink) PostScored(phrase, label string) {
    for _, s := range m {
        s.PostScored(phrase, label)
    }
}

func (m MultiSink) PostsPersisted(phrase string, count int) {
    for _, s := range m {
        s.PostsPersisted(phrase, count)
    }
}

func (m MultiSink) MonitorFailed(phrase string, err error) {
    for _, s := range m {
        s.MonitorFailed(phrase, err)
    }
}
