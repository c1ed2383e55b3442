// Package snowflake32 生成 ingest 会话编号, 24小时内不重复
package snowflake32

import (
	"fmt"
	"sync"
	"time"
)

// Snowflake 编号构成: 0 | 当天秒数 17bit | 数据中心 2bit | 节点 3bit | 序号 9bit
// 每秒最多 512 个编号, 用完后阻塞到秒数变化(含跨零点)
type Snowflake struct {
	sync.Mutex
	seconds    int32
	datacenter int32 // 0-3
	worker     int32 // 0-7
	sequence   int32
	now        func() time.Time
}

const (
	sequenceBits    = 9
	workerBits      = 3
	datacenterBits  = 2
	sequenceMask    = int32(1<<sequenceBits - 1)
	workerMask      = int32(1<<workerBits - 1)
	datacenterMask  = int32(1<<datacenterBits - 1)
	workerShift     = sequenceBits
	datacenterShift = sequenceBits + workerBits
	secondsShift    = sequenceBits + workerBits + datacenterBits
)

// NewSnowflake d 为数据中心编号, w 为节点编号, 超出范围的高位被截掉
func NewSnowflake(d int32, w int32) *Snowflake {
	return &Snowflake{datacenter: d & datacenterMask, worker: w & workerMask, now: time.Now}
}

func (s *Snowflake) NextVal() int32 {
	s.Lock()
	defer s.Unlock()
	now := s.secondsOfDay()
	if s.seconds == now {
		s.sequence = (s.sequence + 1) & sequenceMask
		if s.sequence == 0 {
			// 只等秒数变化, 23:59:59 之后是 0
			for now == s.seconds {
				time.Sleep(time.Millisecond)
				now = s.secondsOfDay()
			}
		}
	} else {
		s.sequence = 0
	}
	s.seconds = now
	return s.seconds<<secondsShift | s.datacenter<<datacenterShift | s.worker<<workerShift | s.sequence
}

func (s *Snowflake) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", s.seconds, s.datacenter, s.worker, s.sequence)
}

func (s *Snowflake) secondsOfDay() int32 {
	t := s.now()
	return int32(t.Hour()*3600 + t.Minute()*60 + t.Second())
}
