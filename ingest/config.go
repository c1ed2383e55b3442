package ingest

import (
	"time"

	"github.com/aaronwong1989/godem/comm/yml_config"
)

type Config struct {
	Port         int           `yaml:"port"`
	Multicore    bool          `yaml:"multicore"`
	MaxCons      int           `yaml:"max-cons"`
	MaxDemoSize  uint64        `yaml:"max-demo-size"` // 单个 demo 最大字节数, 0 不限制
	MaxPoolSize  int           `yaml:"max-pool-size"`
	TickDuration time.Duration `yaml:"tick-duration"`
	DataCenterId int32         `yaml:"data-center-id"`
	WorkerId     int32         `yaml:"worker-id"`
}

func DefaultConfig() Config {
	return Config{
		Port:         9270,
		Multicore:    true,
		MaxCons:      256,
		MaxDemoSize:  512 << 20,
		MaxPoolSize:  64,
		TickDuration: time.Minute,
	}
}

// LoadConfig 以默认值为基础, 覆盖配置文件中出现的键
func LoadConfig(conf yml_config.YmlConfig) Config {
	c := DefaultConfig()
	if conf.IsSet("port") {
		c.Port = conf.GetInt("port")
	}
	if conf.IsSet("multicore") {
		c.Multicore = conf.GetBool("multicore")
	}
	if conf.IsSet("max-cons") {
		c.MaxCons = conf.GetInt("max-cons")
	}
	if conf.IsSet("max-demo-size") {
		c.MaxDemoSize = uint64(conf.GetInt("max-demo-size"))
	}
	if conf.IsSet("max-pool-size") {
		c.MaxPoolSize = conf.GetInt("max-pool-size")
	}
	if conf.IsSet("tick-duration") {
		c.TickDuration = conf.GetDuration("tick-duration")
	}
	if conf.IsSet("data-center-id") {
		c.DataCenterId = int32(conf.GetInt("data-center-id"))
	}
	if conf.IsSet("worker-id") {
		c.WorkerId = int32(conf.GetInt("worker-id"))
	}
	return c
}
