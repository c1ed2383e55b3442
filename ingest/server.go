// Package ingest 基于 gnet 的 demo 上传服务.
//
// 客户端建立 TCP 连接后直接写入 demo 文件内容, 可以连续写入多个 demo.
// 服务端按到达的数据增量解码, 每解码完成一个 demo 回复一行 JSON 概要(godem.Summary),
// 并把 demo 交给工作池中的 Handler 处理; 数据格式错误或超过大小限制时回复 "ERR ..." 并关闭连接.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/panjf2000/gnet/v2"

	"github.com/aaronwong1989/godem"
	"github.com/aaronwong1989/godem/codec/dem"
	"github.com/aaronwong1989/godem/comm"
	"github.com/aaronwong1989/godem/comm/logging"
	"github.com/aaronwong1989/godem/comm/metrics"
	"github.com/aaronwong1989/godem/snowflake32"
)

var log = logging.GetDefaultLogger()

// Handler 在工作池中异步处理解码完成的 demo
type Handler func(sessionID int32, d *dem.Demo)

type Server struct {
	gnet.BuiltinEventEngine
	engine   gnet.Engine
	protocol string
	address  string
	conf     Config
	pool     *ants.Pool
	seq      *snowflake32.Snowflake
	metrics  *metrics.Metrics
	handler  Handler
	sessions int32
	booted   chan struct{}
}

func NewServer(conf Config, m *metrics.Metrics, handler Handler) (*Server, error) {
	options := ants.Options{
		ExpiryDuration:   time.Minute,      // 1 分钟内不被使用的worker会被清除
		Nonblocking:      false,            // 阻塞模式, 池满时提交任务会等待
		MaxBlockingTasks: conf.MaxPoolSize, // 阻塞模式下最多等待的任务数
		PreAlloc:         false,
		PanicHandler: func(e interface{}) {
			log.Errorf("[%-9s] handler panic: %v", "Pool", e)
		},
	}
	pool, err := ants.NewPool(conf.MaxPoolSize, ants.WithOptions(options))
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	if handler == nil {
		handler = func(int32, *dem.Demo) {}
	}
	return &Server{
		protocol: "tcp",
		address:  fmt.Sprintf(":%d", conf.Port),
		conf:     conf,
		pool:     pool,
		seq:      snowflake32.NewSnowflake(conf.DataCenterId, conf.WorkerId),
		metrics:  m,
		handler:  handler,
		booted:   make(chan struct{}),
	}, nil
}

// Run 阻塞直到服务停止
func (s *Server) Run() error {
	defer s.pool.Release()
	return gnet.Run(s, s.protocol+"://"+s.address,
		gnet.WithMulticore(s.conf.Multicore),
		gnet.WithTicker(s.conf.TickDuration > 0),
		gnet.WithLogger(logging.GetDefaultLogger()))
}

// Stop 等待 Run 启动完成后停止服务
func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	case <-ctx.Done():
		return ctx.Err()
	}
	return gnet.Stop(ctx, s.protocol+"://"+s.address)
}

func (s *Server) OnBoot(eng gnet.Engine) (action gnet.Action) {
	log.Infof("[%-9s] running server on %s with multi-core=%t", "OnBoot", fmt.Sprintf("%s://%s", s.protocol, s.address), s.conf.Multicore)
	s.engine = eng
	close(s.booted)
	return
}

func (s *Server) OnShutdown(eng gnet.Engine) {
	log.Warnf("[%-9s] shutdown server %s://%s, active connections %d", "OnShutdown", s.protocol, s.address, eng.CountConnections())
}

func (s *Server) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	if s.conf.MaxCons > 0 && s.activeSessions() >= s.conf.MaxCons {
		log.Warnf("[%-9s] [%v<->%v] FLOW CONTROL: connections threshold reached, closing new connection...", "OnOpen", c.RemoteAddr(), c.LocalAddr())
		s.metrics.DecodeErrors.WithLabelValues("rejected").Inc()
		return []byte("ERR too many connections\n"), gnet.Close
	}
	sess := newSession(s.seq.NextVal())
	c.SetContext(sess)
	atomic.AddInt32(&s.sessions, 1)
	s.metrics.ActiveSessions.Inc()
	log.Infof("[%-9s] [%v<->%v] session=%d, activeSessions=%d.", "OnOpen", c.RemoteAddr(), c.LocalAddr(), sess.id, s.activeSessions())
	return
}

func (s *Server) OnClose(c gnet.Conn, e error) (action gnet.Action) {
	sess, ok := c.Context().(*session)
	if !ok {
		return
	}
	atomic.AddInt32(&s.sessions, -1)
	s.metrics.ActiveSessions.Dec()
	if sess.partial() {
		s.metrics.ObserveError(&dem.IncompleteError{Field: "connection", EOF: true})
		log.Warnf("[%-9s] [%v] session %s closed with an incomplete demo, reason=%v.", "OnClose", c.RemoteAddr(), sess, e)
		return
	}
	log.Infof("[%-9s] [%v] session %s closed after %s, reason=%v.", "OnClose", c.RemoteAddr(), sess, time.Since(sess.opened), e)
	return
}

func (s *Server) OnTraffic(c gnet.Conn) (action gnet.Action) {
	sess, ok := c.Context().(*session)
	if !ok {
		return gnet.Close
	}
	buf := comm.PeekAll(c)
	if len(buf) > sess.pending {
		s.metrics.BytesReceived.Add(float64(len(buf) - sess.pending))
	}

	demos, consumed, err := sess.feed(buf, s.conf.MaxDemoSize)
	if err != nil {
		// 错误数据只打印开头部分
		comm.LogHex(logging.DebugLevel, "Demo", buf[consumed:consumed+min(len(buf)-consumed, 64)])
	}
	if _, derr := c.Discard(consumed); derr != nil {
		log.Errorf("[%-9s] [%v] discard %d bytes: %v", "OnTraffic", c.RemoteAddr(), consumed, derr)
		return gnet.Close
	}

	first := sess.firstSeq(len(demos))
	for i, d := range demos {
		s.completed(c, sess, first+i, d)
	}

	if err != nil {
		s.metrics.ObserveError(err)
		log.Warnf("[%-9s] [%v] session %d decode error: %v, closing...", "OnTraffic", c.RemoteAddr(), sess.id, err)
		_, _ = c.Write([]byte("ERR " + err.Error() + "\n"))
		return gnet.Close
	}
	return gnet.None
}

func (s *Server) OnTick() (delay time.Duration, action gnet.Action) {
	log.Infof("[%-9s] %d active sessions, %d connections.", "OnTick", s.activeSessions(), s.engine.CountConnections())
	return s.conf.TickDuration, gnet.None
}

// completed seq 为该 demo 在本连接上的序号, 从1开始
func (s *Server) completed(c gnet.Conn, sess *session, seq int, d *dem.Demo) {
	s.metrics.ObserveDemo(d)
	summary := godem.Summarize(d, false)
	summary.Source = c.RemoteAddr().String()
	log.Infof("[%-9s] <<< session=%d demo #%d %s", "OnTraffic", sess.id, seq, &d.Header)

	line, err := json.Marshal(summary)
	if err == nil {
		_, err = c.Write(append(line, '\n'))
	}
	if err != nil {
		log.Errorf("[%-9s] [%v] reply summary: %v", "OnTraffic", c.RemoteAddr(), err)
	}

	id := sess.id
	if err := s.pool.Submit(func() { s.handler(id, d) }); err != nil {
		log.Errorf("[%-9s] submit demo of session %d: %v", "OnTraffic", id, err)
	}
}

func (s *Server) activeSessions() int {
	return int(atomic.LoadInt32(&s.sessions))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
