package dem

import (
	"fmt"

	"github.com/aaronwong1989/godem/codec"
)

var _ codec.Codec = (*Frame)(nil)

// FrameHeaderSize 每帧固定部分: server_frame, client_frame, sub_packet_size
const FrameHeaderSize = 12

// Frame 一帧记录, Buffer 为复制出来的负载, 不做解析
type Frame struct {
	ServerFrame   uint32 // 【4字节】服务端帧序号
	ClientFrame   uint32 // 【4字节】客户端帧序号
	SubPacketSize uint32 // 【4字节】负载长度
	Buffer        []byte // 【SubPacketSize字节】负载
}

// DecodeFrame 解码一帧, 返回帧和剩余数据
func DecodeFrame(buf []byte) (*Frame, []byte, error) {
	f := &Frame{}
	rest, err := f.Decode(buf)
	if err != nil {
		return nil, buf, err
	}
	return f, rest, nil
}

func (f *Frame) Decode(buf []byte) ([]byte, error) {
	c := &cursor{buf: buf}
	df := Frame{
		ServerFrame:   c.u32("server_frame"),
		ClientFrame:   c.u32("client_frame"),
		SubPacketSize: c.u32("sub_packet_size"),
	}
	df.Buffer = c.take("payload", df.SubPacketSize)
	if c.err != nil {
		return buf, c.err
	}
	*f = df
	return c.buf, nil
}

func (f *Frame) String() string {
	const maxHex = 16
	if len(f.Buffer) > maxHex {
		return fmt.Sprintf("{ ServerFrame: %d, ClientFrame: %d, SubPacketSize: %d, Buffer: %x... }",
			f.ServerFrame, f.ClientFrame, f.SubPacketSize, f.Buffer[:maxHex])
	}
	return fmt.Sprintf("{ ServerFrame: %d, ClientFrame: %d, SubPacketSize: %d, Buffer: %x }",
		f.ServerFrame, f.ClientFrame, f.SubPacketSize, f.Buffer)
}

// decodeFrames 按文件头声明的数量解码 n 帧, 任意一帧失败则整体失败, 不返回部分结果
func decodeFrames(buf []byte, n uint32) ([]Frame, []byte, error) {
	frames := make([]Frame, 0, framesCap(n, len(buf)))
	rest := buf
	for i := uint32(0); i < n; i++ {
		var err error
		var f Frame
		if rest, err = decodeNextFrame(&f, rest); err != nil {
			return nil, buf, err
		}
		frames = append(frames, f)
	}
	return frames, rest, nil
}

// decodeNextFrame 解码序列中的下一个元素, Decoder 与 decodeFrames 共用
func decodeNextFrame(el codec.Codec, buf []byte) ([]byte, error) {
	// 帧前的 uint32 本应是帧类型(cmd), 目前只读取不消费, 也不参与解析
	peekUint32(buf)
	return el.Decode(buf)
}

// framesCap 帧数来自文件, 预分配不超过剩余数据最多能容纳的帧数
func framesCap(n uint32, remaining int) int {
	most := remaining/FrameHeaderSize + 1
	if uint64(n) < uint64(most) {
		return int(n)
	}
	return most
}
