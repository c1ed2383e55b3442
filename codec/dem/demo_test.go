package dem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_SingleFrame(t *testing.T) {
	buf := (&demoBuilder{}).raw([]byte(Magic)...).u32(1).u32(1).
		raw(make([]byte, 4*PathStrLen)...).
		f32(0).u32(0).u32(1).u32(0).
		u32(10).u32(10).u32(3).raw(0xAA, 0xBB, 0xCC).bytes()

	demo, rest, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, uint32(1), demo.Header.PlaybackFrames)
	assert.Equal(t, "", demo.Header.ServerName)
	require.Len(t, demo.Frames, 1)
	assert.Equal(t, uint32(10), demo.Frames[0].ServerFrame)
	assert.Equal(t, uint32(10), demo.Frames[0].ClientFrame)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, demo.Frames[0].Buffer)
}

func TestDecode(t *testing.T) {
	h, frames, buf := sampleDemo(20)

	demo, rest, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, h, demo.Header)
	assert.Equal(t, frames, demo.Frames)
	assert.Len(t, demo.Frames, int(demo.Header.PlaybackFrames))
	for _, f := range demo.Frames {
		assert.Len(t, f.Buffer, int(f.SubPacketSize))
	}
	assert.Equal(t, uint64(len(buf)), demo.Size())
}

func TestDecode_TrailingBytes(t *testing.T) {
	_, _, buf := sampleDemo(2)
	buf = append(buf, 0xDE, 0xAD)

	demo, rest, err := Decode(buf)
	require.NoError(t, err)
	assert.Len(t, demo.Frames, 2)
	assert.Equal(t, []byte{0xDE, 0xAD}, rest)
}

func TestDecode_NoFrames(t *testing.T) {
	_, _, buf := sampleDemo(0)
	demo, rest, err := Decode(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Empty(t, demo.Frames)
}

func TestDecode_Deterministic(t *testing.T) {
	_, _, buf := sampleDemo(8)
	d1, r1, err1 := Decode(buf)
	d2, r2, err2 := Decode(buf)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, d1, d2)
	assert.Equal(t, r1, r2)
}

func TestDecode_ShortBufferIsIncomplete(t *testing.T) {
	_, _, buf := sampleDemo(4)
	for n := 0; n < len(buf); n++ {
		demo, rest, err := Decode(buf[:n])
		assert.Nil(t, demo)
		assert.Len(t, rest, n)
		if !assert.True(t, IsIncomplete(err), "n=%d err=%v", n, err) {
			return
		}
		assert.NotErrorIs(t, err, ErrMalformedFraming)
	}
}

func TestDecode_BadMagic(t *testing.T) {
	_, _, buf := sampleDemo(1)
	for i := 0; i < len(Magic); i++ {
		bad := append([]byte{}, buf...)
		bad[i] ^= 0x20
		_, _, err := Decode(bad)
		assert.ErrorIs(t, err, ErrMalformedFraming, "i=%d", i)
	}
}

func TestDemo_Stats(t *testing.T) {
	_, _, buf := sampleDemo(4)
	demo, _, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, uint64(0+3+6+9), demo.PayloadBytes())
	assert.Equal(t, 12500*time.Millisecond, demo.Duration())
	assert.InDelta(t, 66.0, demo.TickRate(), 0.001)

	demo.Header.PlaybackTime = 0
	assert.Equal(t, 0.0, demo.TickRate())
}
