// Package yml_config 读取yaml配置文件, 通过键名按类型取值
package yml_config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfPath 配置文件所在目录, 未设置时使用当前工作目录
const EnvConfPath = "GODEM_CONF_PATH"

type YmlConfig interface {
	IsSet(key string) bool
	Get(key string) interface{}
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	Path() string
}

type ymlConfig struct {
	path   string
	values map[string]interface{}
}

// CreateYamlFactory 按名称加载配置, name 可带或不带 .yaml 后缀, 文件不存在或格式错误时 panic
func CreateYamlFactory(name string) YmlConfig {
	if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
		name += ".yaml"
	}
	dir := os.Getenv(EnvConfPath)
	if len(dir) == 0 {
		dir = "."
	}
	conf, err := Load(filepath.Join(dir, name))
	if err != nil {
		panic(err)
	}
	return conf
}

// Load 读取指定路径的yaml文件
func Load(path string) (YmlConfig, error) {
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(path, bts)
}

// Parse 解析yaml内容, path 仅用于提示
func Parse(path string, bts []byte) (YmlConfig, error) {
	values := make(map[string]interface{})
	if err := yaml.Unmarshal(bts, &values); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &ymlConfig{path: path, values: values}, nil
}

func (c *ymlConfig) Path() string {
	return c.path
}

func (c *ymlConfig) IsSet(key string) bool {
	_, ok := c.values[key]
	return ok
}

func (c *ymlConfig) Get(key string) interface{} {
	return c.values[key]
}

func (c *ymlConfig) GetString(key string) string {
	switch v := c.values[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (c *ymlConfig) GetInt(key string) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	default:
		return 0
	}
}

func (c *ymlConfig) GetBool(key string) bool {
	switch v := c.values[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

// GetDuration 支持 "10s" 形式的字符串, 纯数字按纳秒处理, 与 time.Duration 的 yaml 解码一致
func (c *ymlConfig) GetDuration(key string) time.Duration {
	switch v := c.values[key].(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return d
	case int:
		return time.Duration(v)
	case int64:
		return time.Duration(v)
	case float64:
		return time.Duration(v)
	default:
		return 0
	}
}
