package codec

// Codec 定长/变长报文元素的解码接口
// Decode 从 buf 头部解码一个元素, 返回未消费的剩余数据; 出错时返回原 buf
type Codec interface {
	Decode(buf []byte) (rest []byte, err error)
	String() string
}
