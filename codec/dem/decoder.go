package dem

// Decoder 可续传的解码器, 用于分块到达的数据.
// 每次调用只消费完整的元素(文件头或整帧), 并记住已解码的部分,
// 调用方丢弃已消费的字节、追加新数据后再次调用即可, 无需从头解码.
type Decoder struct {
	header *Header
	frames []Frame
	total  uint64 // 当前 demo 已消费的字节数
	err    error  // 不可恢复的错误, 之后的调用都直接返回
}

// Decode 返回本次消费的字节数. demo 未完整时返回 ErrIncomplete, consumed 可能大于0.
// 完整解码一个 demo 后解码器自动重置, 可以继续解码下一个.
func (d *Decoder) Decode(buf []byte) (demo *Demo, consumed int, err error) {
	if d.err != nil {
		return nil, 0, d.err
	}

	rest := buf
	if d.header == nil {
		h, next, err := DecodeHeader(rest)
		if err != nil {
			if !IsIncomplete(err) {
				d.err = err
			}
			return nil, 0, err
		}
		d.header = h
		d.frames = make([]Frame, 0, framesCap(h.PlaybackFrames, len(next)))
		rest = next
	}

	for uint32(len(d.frames)) < d.header.PlaybackFrames {
		var f Frame
		next, err := decodeNextFrame(&f, rest)
		if err != nil {
			consumed = len(buf) - len(rest)
			d.total += uint64(consumed)
			return nil, consumed, err
		}
		d.frames = append(d.frames, f)
		rest = next
	}

	consumed = len(buf) - len(rest)
	demo = &Demo{Header: *d.header, Frames: d.frames}
	d.Reset()
	return demo, consumed, nil
}

// Header 已解码的文件头, 尚未解码时为 nil
func (d *Decoder) Header() *Header {
	return d.header
}

// Frames 当前 demo 已解码的帧数
func (d *Decoder) Frames() int {
	return len(d.frames)
}

// Consumed 当前 demo 已消费的字节数
func (d *Decoder) Consumed() uint64 {
	return d.total
}

// Err 不可恢复的错误
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) Reset() {
	*d = Decoder{}
}
