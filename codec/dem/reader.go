package dem

import (
	"errors"
	"io"
)

const readChunkSize = 64 * 1024

// ReadDemo 从 r 分块读取并解码一个 demo. demo 之后的数据可能已被读出, 不会退回.
// 数据源提前结束时返回的错误同时满足 errors.Is(err, io.ErrUnexpectedEOF) 和 errors.Is(err, ErrIncomplete)
func ReadDemo(r io.Reader) (*Demo, error) {
	var (
		d     Decoder
		buf   = make([]byte, 0, readChunkSize)
		chunk = make([]byte, readChunkSize)
	)
	for {
		n, rerr := r.Read(chunk)
		buf = append(buf, chunk[:n]...)

		demo, consumed, err := d.Decode(buf)
		if err == nil {
			return demo, nil
		}
		if !IsIncomplete(err) {
			return nil, err
		}
		buf = append(buf[:0], buf[consumed:]...)

		if rerr == io.EOF {
			var ie *IncompleteError
			if errors.As(err, &ie) {
				eof := *ie
				eof.EOF = true
				return nil, &eof
			}
			return nil, io.ErrUnexpectedEOF
		}
		if rerr != nil {
			return nil, rerr
		}
	}
}
