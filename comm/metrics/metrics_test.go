package metrics

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aaronwong1989/godem/codec/dem"
)

func TestObserveDemo(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	d := &dem.Demo{Frames: []dem.Frame{
		{SubPacketSize: 3, Buffer: []byte{1, 2, 3}},
		{SubPacketSize: 1, Buffer: []byte{4}},
	}}
	m.ObserveDemo(d)
	m.ObserveDemo(d)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DemosDecoded))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.FramesDecoded))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.PayloadBytes))
}

func TestObserveError(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveError(fmt.Errorf("%w: bad", dem.ErrMalformedFraming))
	m.ObserveError(&dem.IncompleteError{Field: "payload", Needed: 3, EOF: true})
	m.ObserveError(ErrTooLarge)
	m.ObserveError(io.ErrClosedPipe)
	m.ObserveError(errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("malformed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("incomplete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("too_large")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("io")))
}
