package dem

import (
	"encoding/binary"
	"math"

	"github.com/aaronwong1989/godem/comm"
)

// cursor 顺序读取小端字段, 第一个错误之后的读取都返回零值
type cursor struct {
	buf []byte
	err error
}

func (c *cursor) u32(field string) uint32 {
	if c.err != nil {
		return 0
	}
	if len(c.buf) < 4 {
		c.err = incomplete(field, 4, len(c.buf))
		return 0
	}
	v := binary.LittleEndian.Uint32(c.buf[0:4])
	c.buf = c.buf[4:]
	return v
}

func (c *cursor) f32(field string) float32 {
	return math.Float32frombits(c.u32(field))
}

// pathStr 读取 PathStrLen 字节的定长字符串, 截断到第一个0字节, 非法UTF-8替换为 U+FFFD
// 无论0字节在哪里, 都消费完整的 PathStrLen 字节
func (c *cursor) pathStr(field string) string {
	if c.err != nil {
		return ""
	}
	if len(c.buf) < PathStrLen {
		c.err = incomplete(field, PathStrLen, len(c.buf))
		return ""
	}
	s := comm.LossyUTF8(comm.TrimStr(c.buf[:PathStrLen]))
	c.buf = c.buf[PathStrLen:]
	return s
}

// take 复制 n 字节, n 没有上限, 只在数据不足时失败
func (c *cursor) take(field string, n uint32) []byte {
	if c.err != nil {
		return nil
	}
	if uint64(len(c.buf)) < uint64(n) {
		c.err = incomplete(field, uint64(n), len(c.buf))
		return nil
	}
	bts := make([]byte, n)
	copy(bts, c.buf[:n])
	c.buf = c.buf[n:]
	return bts
}

// peekUint32 读取但不消费一个小端 uint32
func peekUint32(buf []byte) (uint32, bool) {
	if len(buf) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[0:4]), true
}
