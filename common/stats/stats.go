// Package stats provides a minimal StatsReceiver backed by go-metrics, used to
// count what a snapshot run captured and how long each step took.
//
// Original license: github.com/rcrowley/go-metrics/blob/master/LICENSE
package stats

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"
)

// For testing.
var Now = time.Now

type StatsReceiver interface {
	// Return a stats receiver that will automatically namespace elements with
	// the given scope args.
	//
	//   statsReceiver.Scope("foo", "bar").Counter("baz")  // is equivalent to
	//   statsReceiver.Counter("foo", "bar", "baz")
	//
	Scope(scope ...string) StatsReceiver

	// Provides an event counter
	Counter(name ...string) Counter

	// Provides a histogram of sampled durations, rendered in milliseconds.
	Latency(name ...string) Latency

	// Construct a JSON string by marshaling the registry.
	Render(pretty bool) []byte
}

type Counter interface {
	Inc(int64)
	Count() int64
}

type Latency interface {
	Time() Latency
	Stop()
	Count() int64
}

// DefaultStatsReceiver returns a receiver over a fresh go-metrics registry.
func DefaultStatsReceiver() StatsReceiver {
	return &defaultStatsReceiver{registry: metrics.NewRegistry()}
}

type defaultStatsReceiver struct {
	registry metrics.Registry
	scope    []string
}

func (s *defaultStatsReceiver) Scope(scope ...string) StatsReceiver {
	return &defaultStatsReceiver{s.registry, s.scoped(scope...)}
}

func (s *defaultStatsReceiver) Counter(name ...string) Counter {
	return s.registry.GetOrRegister(s.scopedName(name...), metrics.NewCounter).(metrics.Counter)
}

func (s *defaultStatsReceiver) Latency(name ...string) Latency {
	return s.registry.GetOrRegister(s.scopedName(name...), newLatency).(*metricLatency)
}

func (s *defaultStatsReceiver) Render(pretty bool) []byte {
	out := map[string]interface{}{}
	s.registry.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case metrics.Counter:
			out[name] = m.Count()
		case *metricLatency:
			snap := m.Snapshot()
			ms := float64(time.Millisecond)
			out[name] = map[string]interface{}{
				"count": snap.Count(),
				"avg":   snap.Mean() / ms,
				"p50":   snap.Percentile(0.5) / ms,
				"max":   float64(snap.Max()) / ms,
			}
		}
	})
	var bytes []byte
	if pretty {
		bytes, _ = json.MarshalIndent(out, "", "  ")
	} else {
		bytes, _ = json.Marshal(out)
	}
	return bytes
}

// Names returns the registered stat names, sorted.
func Names(s StatsReceiver) []string {
	d, ok := s.(*defaultStatsReceiver)
	if !ok {
		return nil
	}
	var names []string
	d.registry.Each(func(name string, _ interface{}) { names = append(names, name) })
	sort.Strings(names)
	return names
}

func (s *defaultStatsReceiver) scoped(scope ...string) []string {
	return append(append([]string(nil), s.scope...), scope...)
}

func (s *defaultStatsReceiver) scopedName(scope ...string) string {
	var parts []string
	for _, p := range s.scoped(scope...) {
		parts = append(parts, strings.Replace(p, "/", "_SLASH_", -1))
	}
	return strings.Join(parts, "/")
}

// NilStatsReceiver drops everything.
func NilStatsReceiver() StatsReceiver {
	return &nilStatsReceiver{}
}

type nilStatsReceiver struct{}

func (s *nilStatsReceiver) Scope(scope ...string) StatsReceiver { return s }
func (s *nilStatsReceiver) Counter(name ...string) Counter      { return metrics.NilCounter{} }
func (s *nilStatsReceiver) Latency(name ...string) Latency      { return &nilLatency{} }
func (s *nilStatsReceiver) Render(pretty bool) []byte           { return []byte{} }

type metricLatency struct {
	metrics.Histogram
	start time.Time
}

func newLatency() *metricLatency {
	return &metricLatency{Histogram: metrics.NewHistogram(metrics.NewUniformSample(1000))}
}

func (l *metricLatency) Time() Latency { l.start = Now(); return l }
func (l *metricLatency) Stop()         { l.Update(Now().Sub(l.start).Nanoseconds()) }

type nilLatency struct{}

func (l *nilLatency) Time() Latency { return l }
func (l *nilLatency) Stop()         {}
func (l *nilLatency) Count() int64  { return 0 }
