package godem

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/godem/codec/dem"
)

func sample() *dem.Demo {
	return &dem.Demo{
		Header: dem.Header{
			DemoProtocol:    3,
			NetworkProtocol: 24,
			ServerName:      "localhost:27015",
			ClientName:      "SourceTV",
			MapName:         "ctf_2fort",
			GameDirectory:   "tf",
			PlaybackTime:    2,
			PlaybackTicks:   132,
			PlaybackFrames:  2,
			SignonLength:    1024,
		},
		Frames: []dem.Frame{
			{ServerFrame: 1, ClientFrame: 1, SubPacketSize: 2, Buffer: []byte{1, 2}},
			{ServerFrame: 2, ClientFrame: 2, SubPacketSize: 1, Buffer: []byte{3}},
		},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample(), false)
	assert.Equal(t, "ctf_2fort", s.MapName)
	assert.Equal(t, uint32(2), s.PlaybackFrames)
	assert.Equal(t, 2*time.Second, s.Duration)
	assert.Equal(t, 66.0, s.TickRate)
	assert.Equal(t, uint64(3), s.PayloadBytes)
	assert.Nil(t, s.Frames)

	s = Summarize(sample(), true)
	require.Len(t, s.Frames, 2)
	assert.Equal(t, FrameSummary{Index: 1, ServerFrame: 2, ClientFrame: 2, SubPacketSize: 1}, s.Frames[1])
}

func TestSummary_JSON(t *testing.T) {
	bts, err := json.Marshal(Summarize(sample(), false))
	require.NoError(t, err)
	t.Logf("%s", bts)
	assert.Contains(t, string(bts), `"map-name":"ctf_2fort"`)
	assert.NotContains(t, string(bts), `"frames"`)
	assert.NotContains(t, string(bts), `"source"`)
}
