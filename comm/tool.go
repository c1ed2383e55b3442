package comm

import (
	"bufio"
	"bytes"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"

	"github.com/panjf2000/gnet/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/aaronwong1989/godem/comm/logging"
)

var log = logging.GetDefaultLogger()

// TrimStr 截取第一个0字节之前的内容, 没有0字节时返回全部
func TrimStr(bts []byte) []byte {
	if i := bytes.IndexByte(bts, 0); i >= 0 {
		return bts[:i]
	}
	return bts
}

// LossyUTF8 按UTF-8解码, 非法字节序列替换为 U+FFFD, 不会返回错误
func LossyUTF8(bts []byte) string {
	if len(bts) == 0 {
		return ""
	}
	s, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), bts)
	if err != nil {
		// utf8解码器只会替换非法字节, 这里不会走到
		return string(bytes.ToValidUTF8(bts, []byte("�")))
	}
	return string(s)
}

// PadStr 将字符串放入定长字节数组, 不足补0, 超长截断
func PadStr(s string, length int) []byte {
	nb := make([]byte, length)
	copy(nb, s)
	return nb
}

// PeekAll 返回连接入站缓冲区的全部数据, 不移动读指针
func PeekAll(c gnet.Conn) []byte {
	n := c.InboundBuffered()
	if n == 0 {
		return nil
	}
	buf, err := c.Peek(n)
	if err != nil {
		log.Errorf("[%-9s] peek error: %v", "OnTraffic", err)
		return nil
	}
	return buf
}

func LogHex(level logging.Level, model string, bts []byte) {
	msg := fmt.Sprintf("[OnTraffic] Hex %s: %x", model, bts)
	switch level {
	case logging.DebugLevel:
		log.Debugf("%s", msg)
	case logging.ErrorLevel:
		log.Errorf("%s", msg)
	case logging.WarnLevel:
		log.Warnf("%s", msg)
	default:
		log.Infof("%s", msg)
	}
}

// SavePid 在程序执行的当前目录生成pid文件
func SavePid(f string) string {
	pid := strconv.Itoa(os.Getpid())
	file, err := os.OpenFile(f, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Errorf("%v", err)
		return pid
	}
	writer := bufio.NewWriter(file)
	_, _ = writer.WriteString(pid)
	defer func(file *os.File, writer *bufio.Writer) {
		_ = writer.Flush()
		_ = file.Close()
	}(file, writer)

	return pid
}

// StartMonitor 在 port+1 上开启 pprof 与 prometheus /metrics
func StartMonitor(port int) {
	go func() {
		addr := strconv.Itoa(port + 1)
		http.Handle("/metrics", promhttp.Handler())
		log.Infof("[Monitor  ] http://localhost:%s/debug/pprof/ , http://localhost:%s/metrics", addr, addr)
		if err := http.ListenAndServe(":"+addr, nil); err != nil {
			log.Errorf("start monitor failed on %s: %v", addr, err)
		}
	}()
}
