package godem

import (
	"time"

	"github.com/aaronwong1989/godem/codec/dem"
)

// Summary demo 的概要, 供 CLI 输出与 ingest 服务应答使用
type Summary struct {
	Source          string         `json:"source,omitempty"`
	DemoProtocol    uint32         `json:"demo-protocol"`
	NetworkProtocol uint32         `json:"network-protocol"`
	ServerName      string         `json:"server-name"`
	ClientName      string         `json:"client-name"`
	MapName         string         `json:"map-name"`
	GameDirectory   string         `json:"game-directory"`
	PlaybackTime    float32        `json:"playback-time"`
	PlaybackTicks   uint32         `json:"playback-ticks"`
	PlaybackFrames  uint32         `json:"playback-frames"`
	SignonLength    uint32         `json:"signon-length"`
	Duration        time.Duration  `json:"duration"`
	TickRate        float64        `json:"tick-rate"`
	PayloadBytes    uint64         `json:"payload-bytes"`
	TrailingBytes   int            `json:"trailing-bytes,omitempty"`
	Frames          []FrameSummary `json:"frames,omitempty"`
}

type FrameSummary struct {
	Index         int    `json:"index"`
	ServerFrame   uint32 `json:"server-frame"`
	ClientFrame   uint32 `json:"client-frame"`
	SubPacketSize uint32 `json:"sub-packet-size"`
}

// Summarize withFrames 为 true 时逐帧列出
func Summarize(d *dem.Demo, withFrames bool) Summary {
	h := d.Header
	s := Summary{
		DemoProtocol:    h.DemoProtocol,
		NetworkProtocol: h.NetworkProtocol,
		ServerName:      h.ServerName,
		ClientName:      h.ClientName,
		MapName:         h.MapName,
		GameDirectory:   h.GameDirectory,
		PlaybackTime:    h.PlaybackTime,
		PlaybackTicks:   h.PlaybackTicks,
		PlaybackFrames:  h.PlaybackFrames,
		SignonLength:    h.SignonLength,
		Duration:        d.Duration(),
		TickRate:        d.TickRate(),
		PayloadBytes:    d.PayloadBytes(),
	}
	if withFrames {
		s.Frames = make([]FrameSummary, len(d.Frames))
		for i, f := range d.Frames {
			s.Frames[i] = FrameSummary{
				Index:         i,
				ServerFrame:   f.ServerFrame,
				ClientFrame:   f.ClientFrame,
				SubPacketSize: f.SubPacketSize,
			}
		}
	}
	return s
}
