// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/VividCortex/gohistogram"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// This file provides prometheus style metrics (Val type) for instrumenting code.
// It also provides a registry for such metrics (set type) and a global default registry.
//
// Simple uses of metrics:
//
//	statFoo := stats.Create("metric name", "metric description")
//	statFoo.Add(1)
//
//	stats.Create("metric name", "metric description", func() int { return len(queue) })
//
// Command line tools use Collect to print values of all registered metrics
// and WritePrometheus to dump them in the Prometheus text format.

type UI struct {
	Name  string
	Desc  string
	Level Level
	Value string
	V     int
}

func Create(name, desc string, opts ...any) *Val {
	return global.Create(name, desc, opts...)
}

func Collect(level Level) []UI {
	return global.Collect(level)
}

func WritePrometheus(w io.Writer) error {
	return global.WritePrometheus(w)
}

var global = newSet()

type set struct {
	mu   sync.Mutex
	vals map[string]*Val
	reg  *prometheus.Registry
}

const histogramBuckets = 255

func newSet() *set {
	return &set{
		vals: make(map[string]*Val),
		reg:  prometheus.NewRegistry(),
	}
}

func (s *set) Collect(level Level) []UI {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []UI
	for _, v := range s.vals {
		if v.level < level {
			continue
		}
		val := v.Val()
		res = append(res, UI{
			Name:  v.name,
			Desc:  v.desc,
			Level: v.level,
			Value: v.format(val),
			V:     val,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Level != res[j].Level {
			return res[i].Level > res[j].Level
		}
		return res[i].Name < res[j].Name
	})
	return res
}

// WritePrometheus writes all metrics exported with the Prometheus option.
func (s *set) WritePrometheus(w io.Writer) error {
	families, err := s.reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Additional options for Val metrics.

// Level controls if the metric should be printed in the summary at the end of a run,
// or only in the full metrics dump.
type Level int

const (
	All Level = iota
	Console
)

// Prometheus exports the metric to Prometheus under the given name.
// Plain metrics are exported as counters, external and distribution metrics as gauges.
type Prometheus string

// Distribution says to collect a histogram of individual samples.
// Val returns the mean of the samples.
type Distribution struct{}

// Additionally a custom 'func() int' can be passed to read the metric value from the function.

func (s *set) Create(name, desc string, opts ...any) *Val {
	v := &Val{
		name: name,
		desc: desc,
	}
	var export Prometheus
	for _, o := range opts {
		switch opt := o.(type) {
		case Level:
			v.level = opt
		case Distribution:
			v.hist = true
		case func() int:
			v.ext = opt
		case Prometheus:
			export = opt
		default:
			panic(fmt.Sprintf("unknown stats option %#v", o))
		}
	}
	if export != "" {
		read := func() float64 { return float64(v.Val()) }
		if v.hist {
			read = v.mean
		}
		if v.ext == nil && !v.hist {
			s.reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
				Name: string(export),
				Help: desc,
			}, read))
		} else {
			s.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: string(export),
				Help: desc,
			}, read))
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[name] = v
	return v
}

type Val struct {
	name    string
	desc    string
	level   Level
	val     atomic.Uint64
	ext     func() int
	hist    bool
	histMu  sync.Mutex
	histVal *gohistogram.NumericHistogram
}

func (v *Val) Add(val int) {
	if v.ext != nil {
		panic(fmt.Sprintf("stat %v is in external mode", v.name))
	}
	if v.hist {
		v.histMu.Lock()
		if v.histVal == nil {
			v.histVal = gohistogram.NewHistogram(histogramBuckets)
		}
		v.histVal.Add(float64(val))
		v.histMu.Unlock()
		return
	}
	v.val.Add(uint64(val))
}

func (v *Val) Val() int {
	if v.ext != nil {
		return v.ext()
	}
	if v.hist {
		return int(v.mean())
	}
	return int(v.val.Load())
}

// Quantile returns the q-th quantile of a distribution metric.
func (v *Val) Quantile(q float64) float64 {
	if !v.hist {
		panic(fmt.Sprintf("stat %v is not a distribution", v.name))
	}
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.histVal == nil {
		return 0
	}
	return v.histVal.Quantile(q)
}

func (v *Val) mean() float64 {
	v.histMu.Lock()
	defer v.histMu.Unlock()
	if v.histVal == nil {
		return 0
	}
	return v.histVal.Mean()
}

func (v *Val) format(val int) string {
	if !v.hist {
		return strconv.Itoa(val)
	}
	return fmt.Sprintf("%.1f avg, %.0f p90", v.mean(), v.Quantile(0.9))
}
