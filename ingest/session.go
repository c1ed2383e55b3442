package ingest

import (
	"fmt"
	"time"

	"github.com/aaronwong1989/godem/codec/dem"
	"github.com/aaronwong1989/godem/comm/metrics"
)

// session 一个连接上的上传状态, 只在所属的 event-loop 中访问
type session struct {
	id       int32
	opened   time.Time
	decoder  dem.Decoder
	received uint64 // 当前 demo 已消费的字节数
	pending  int    // 入站缓冲区中尚未消费的字节数
	demos    int    // 已完成的 demo 数
}

func newSession(id int32) *session {
	return &session{id: id, opened: time.Now()}
}

// feed 解码 buf 中全部完整的 demo, 返回消费的字节数; 剩余数据不足一个完整元素时不报错.
// maxSize 大于0时, 当前 demo 已收到的字节数超过 maxSize 返回 metrics.ErrTooLarge
func (s *session) feed(buf []byte, maxSize uint64) (demos []*dem.Demo, consumed int, err error) {
	for consumed < len(buf) {
		demo, n, err := s.decoder.Decode(buf[consumed:])
		consumed += n
		s.received += uint64(n)
		if err != nil {
			if !dem.IsIncomplete(err) {
				return demos, consumed, err
			}
			if maxSize > 0 && s.received+uint64(len(buf)-consumed) > maxSize {
				return demos, consumed, fmt.Errorf("%w: %d bytes", metrics.ErrTooLarge, maxSize)
			}
			break
		}
		if maxSize > 0 && s.received > maxSize {
			return demos, consumed, fmt.Errorf("%w: %d bytes", metrics.ErrTooLarge, maxSize)
		}
		demos = append(demos, demo)
		s.demos++
		s.received = 0
	}
	s.pending = len(buf) - consumed
	return demos, consumed, nil
}

// firstSeq 最近一次 feed 返回的 n 个 demo 中第一个的序号, 从1开始
func (s *session) firstSeq(n int) int {
	return s.demos - n + 1
}

// partial 是否有未完成的 demo
func (s *session) partial() bool {
	return s.received > 0 || s.pending > 0
}

func (s *session) String() string {
	h := s.decoder.Header()
	if h == nil {
		return fmt.Sprintf("{ id: %d, demos: %d, received: %d, pending: %d }", s.id, s.demos, s.received, s.pending)
	}
	return fmt.Sprintf("{ id: %d, demos: %d, received: %d, pending: %d, map: %s, frames: %d/%d }",
		s.id, s.demos, s.received, s.pending, h.MapName, s.decoder.Frames(), h.PlaybackFrames)
}
