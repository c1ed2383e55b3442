// Package metrics 解码相关的 prometheus 指标
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aaronwong1989/godem/codec/dem"
)

const namespace = "godem"

type Metrics struct {
	BytesReceived  prometheus.Counter
	DemosDecoded   prometheus.Counter
	FramesDecoded  prometheus.Counter
	PayloadBytes   prometheus.Counter
	DecodeErrors   *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	DemoFrames     prometheus.Histogram
}

// NewMetrics 在 reg 上注册全部指标, reg 为 nil 时使用 prometheus.DefaultRegisterer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Total number of demo bytes received",
		}),
		DemosDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demos_decoded_total",
			Help:      "Total number of demos decoded successfully",
		}),
		FramesDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Total number of frames in decoded demos",
		}),
		PayloadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_bytes_total",
			Help:      "Total number of frame payload bytes in decoded demos",
		}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decode_errors_total",
			Help:      "Total number of failed decodes by kind",
		}, []string{"kind"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Current number of ingest sessions",
		}),
		DemoFrames: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "demo_frames",
			Help:      "Distribution of frame counts per demo",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
	}
}

// ObserveDemo 记录一个解码成功的 demo
func (m *Metrics) ObserveDemo(d *dem.Demo) {
	m.DemosDecoded.Inc()
	m.FramesDecoded.Add(float64(len(d.Frames)))
	m.PayloadBytes.Add(float64(d.PayloadBytes()))
	m.DemoFrames.Observe(float64(len(d.Frames)))
}

// ObserveError 按错误类型计数
func (m *Metrics) ObserveError(err error) {
	m.DecodeErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind 错误分类: malformed, incomplete, too_large, io
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, dem.ErrMalformedFraming):
		return "malformed"
	case errors.Is(err, dem.ErrIncomplete):
		return "incomplete"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	default:
		return "io"
	}
}

// ErrTooLarge 上传的数据超过配置的最大值
var ErrTooLarge = errors.New("demo exceeds size limit")
