package dem

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrMalformedFraming 文件头标识不是 "HL2DEMO\x00", 不可恢复
	ErrMalformedFraming = errors.New("dem: malformed framing")
	// ErrIncomplete 数据不足, 补充更多数据后可以重新解码
	ErrIncomplete = errors.New("dem: incomplete input")
)

// IncompleteError 记录哪个字段缺少数据以及还差多少字节
type IncompleteError struct {
	Field  string
	Needed uint64
	// EOF 为 true 表示数据源已经结束, 不会再有更多数据
	EOF bool
}

func (e *IncompleteError) Error() string {
	if e.EOF {
		return fmt.Sprintf("dem: unexpected EOF: %s needs %d more bytes", e.Field, e.Needed)
	}
	return fmt.Sprintf("dem: incomplete input: %s needs %d more bytes", e.Field, e.Needed)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete || (e.EOF && target == io.ErrUnexpectedEOF)
}

// IsIncomplete reports whether err asks for more input.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

func incomplete(field string, want uint64, have int) error {
	return &IncompleteError{Field: field, Needed: want - uint64(have)}
}

func malformed(tag []byte) error {
	return fmt.Errorf("%w: unexpected tag %q", ErrMalformedFraming, tag)
}
