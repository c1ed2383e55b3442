// Package dem 解码 Source 2013 引擎录制的 demo 文件 (HL2DEMO).
//
// 文件由定长文件头和 Header.PlaybackFrames 个帧记录组成, 帧负载原样复制不做解析.
// 所有解码函数都是纯函数, 数据不足时返回 ErrIncomplete, 调用方补充数据后可以重新解码;
// 文件头标识错误返回 ErrMalformedFraming.
package dem

import (
	"time"
)

// Demo 文件头与全部帧
type Demo struct {
	Header Header
	Frames []Frame
}

// Decode 解码整个 demo, 返回未消费的尾部数据
func Decode(buf []byte) (*Demo, []byte, error) {
	h, rest, err := DecodeHeader(buf)
	if err != nil {
		return nil, buf, err
	}
	frames, rest, err := decodeFrames(rest, h.PlaybackFrames)
	if err != nil {
		return nil, buf, err
	}
	return &Demo{Header: *h, Frames: frames}, rest, nil
}

// PayloadBytes 全部帧负载的字节数
func (d *Demo) PayloadBytes() uint64 {
	var n uint64
	for i := range d.Frames {
		n += uint64(d.Frames[i].SubPacketSize)
	}
	return n
}

// Size 编码后的总字节数
func (d *Demo) Size() uint64 {
	return uint64(HeaderSize) + uint64(len(d.Frames))*FrameHeaderSize + d.PayloadBytes()
}

func (d *Demo) Duration() time.Duration {
	return time.Duration(float64(d.Header.PlaybackTime) * float64(time.Second))
}

// TickRate 每秒 tick 数, 时长为0时返回0
func (d *Demo) TickRate() float64 {
	if d.Header.PlaybackTime <= 0 {
		return 0
	}
	return float64(d.Header.PlaybackTicks) / float64(d.Header.PlaybackTime)
}
