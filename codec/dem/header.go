package dem

import (
	"fmt"

	"github.com/aaronwong1989/godem/codec"
)

var _ codec.Codec = (*Header)(nil)

const (
	Magic      = "HL2DEMO\x00" // 文件头标识, 8字节
	PathStrLen = 260           // 定长字符串字段长度, 即 Source 引擎的 MAX_OSPATH
	HeaderSize = len(Magic) + 4 + 4 + 4*PathStrLen + 4 + 4 + 4 + 4
)

// Header demo 文件头, 固定 1072 字节, 所有数值均为小端
type Header struct {
	DemoProtocol    uint32  // 【4字节】demo 文件格式版本
	NetworkProtocol uint32  // 【4字节】录制时的网络协议版本
	ServerName      string  // 【260字节】服务器名称或地址
	ClientName      string  // 【260字节】录制者名称
	MapName         string  // 【260字节】地图名
	GameDirectory   string  // 【260字节】游戏目录, 如 hl2mp, tf
	PlaybackTime    float32 // 【4字节】时长, 秒
	PlaybackTicks   uint32  // 【4字节】tick 数
	PlaybackFrames  uint32  // 【4字节】之后跟随的帧数量
	SignonLength    uint32  // 【4字节】signon 数据长度
}

// DecodeHeader 解码文件头, 返回文件头和剩余数据
func DecodeHeader(buf []byte) (*Header, []byte, error) {
	h := &Header{}
	rest, err := h.Decode(buf)
	if err != nil {
		return nil, buf, err
	}
	return h, rest, nil
}

// Decode 先校验标识再按顺序读取各字段. 数据不足 len(Magic) 时,
// 已有部分与标识不符返回 ErrMalformedFraming, 相符则返回 ErrIncomplete
func (h *Header) Decode(buf []byte) ([]byte, error) {
	n := len(Magic)
	if len(buf) < n {
		n = len(buf)
	}
	if string(buf[:n]) != Magic[:n] {
		return buf, malformed(buf[:n])
	}
	if n < len(Magic) {
		return buf, incomplete("magic", uint64(len(Magic)), n)
	}

	c := &cursor{buf: buf[len(Magic):]}
	dh := Header{
		DemoProtocol:    c.u32("demo_protocol"),
		NetworkProtocol: c.u32("network_protocol"),
		ServerName:      c.pathStr("server_name"),
		ClientName:      c.pathStr("client_name"),
		MapName:         c.pathStr("map_name"),
		GameDirectory:   c.pathStr("game_directory"),
		PlaybackTime:    c.f32("playback_time"),
		PlaybackTicks:   c.u32("playback_ticks"),
		PlaybackFrames:  c.u32("playback_frames"),
		SignonLength:    c.u32("signon_length"),
	}
	if c.err != nil {
		return buf, c.err
	}
	*h = dh
	return c.buf, nil
}

func (h *Header) String() string {
	return fmt.Sprintf("{ DemoProtocol: %d, NetworkProtocol: %d, ServerName: %s, ClientName: %s, MapName: %s, "+
		"GameDirectory: %s, PlaybackTime: %.3f, PlaybackTicks: %d, PlaybackFrames: %d, SignonLength: %d }",
		h.DemoProtocol, h.NetworkProtocol, h.ServerName, h.ClientName, h.MapName,
		h.GameDirectory, h.PlaybackTime, h.PlaybackTicks, h.PlaybackFrames, h.SignonLength)
}
