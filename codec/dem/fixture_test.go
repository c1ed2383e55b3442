package dem

import (
	"encoding/binary"
	"math"

	"github.com/aaronwong1989/godem/comm"
)

// demoBuilder 测试用的编码器, 按文件格式拼出字节流
type demoBuilder struct {
	buf []byte
}

func (b *demoBuilder) raw(bts ...byte) *demoBuilder {
	b.buf = append(b.buf, bts...)
	return b
}

func (b *demoBuilder) u32(v uint32) *demoBuilder {
	var bts [4]byte
	binary.LittleEndian.PutUint32(bts[:], v)
	b.buf = append(b.buf, bts[:]...)
	return b
}

func (b *demoBuilder) f32(v float32) *demoBuilder {
	return b.u32(math.Float32bits(v))
}

func (b *demoBuilder) str(s string) *demoBuilder {
	b.buf = append(b.buf, comm.PadStr(s, PathStrLen)...)
	return b
}

func (b *demoBuilder) header(h Header) *demoBuilder {
	return b.raw([]byte(Magic)...).
		u32(h.DemoProtocol).u32(h.NetworkProtocol).
		str(h.ServerName).str(h.ClientName).str(h.MapName).str(h.GameDirectory).
		f32(h.PlaybackTime).u32(h.PlaybackTicks).u32(h.PlaybackFrames).u32(h.SignonLength)
}

func (b *demoBuilder) frame(f Frame) *demoBuilder {
	return b.u32(f.ServerFrame).u32(f.ClientFrame).u32(f.SubPacketSize).raw(f.Buffer...)
}

func (b *demoBuilder) bytes() []byte {
	return b.buf
}

func sampleHeader(frames uint32) Header {
	return Header{
		DemoProtocol:    3,
		NetworkProtocol: 24,
		ServerName:      "127.0.0.1:27015",
		ClientName:      "player",
		MapName:         "dm_lockdown",
		GameDirectory:   "hl2mp",
		PlaybackTime:    12.5,
		PlaybackTicks:   825,
		PlaybackFrames:  frames,
		SignonLength:    64,
	}
}

func sampleFrames(n int) []Frame {
	frames := make([]Frame, n)
	for i := range frames {
		payload := make([]byte, i*3)
		for j := range payload {
			payload[j] = byte(i + j)
		}
		frames[i] = Frame{
			ServerFrame:   uint32(100 + i),
			ClientFrame:   uint32(99 + i),
			SubPacketSize: uint32(len(payload)),
			Buffer:        payload,
		}
	}
	return frames
}

func sampleDemo(n int) (Header, []Frame, []byte) {
	h := sampleHeader(uint32(n))
	frames := sampleFrames(n)
	b := (&demoBuilder{}).header(h)
	for _, f := range frames {
		b.frame(f)
	}
	return h, frames, b.bytes()
}
