// Package logging 提供全局的printf风格日志, 基于zap, 文件输出由lumberjack滚动切割
//
// 环境变量:
//
//	GODEM_LOGGING_LEVEL 日志级别, zapcore 的整数值: -1 debug, 0 info, 1 warn, 2 error
//	GODEM_LOGGING_FILE  日志文件路径, 未设置时输出到标准输出
package logging

import (
	"errors"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLoggingLevel = "GODEM_LOGGING_LEVEL"
	EnvLoggingFile  = "GODEM_LOGGING_FILE"
)

// Flusher flushes buffered log entries.
type Flusher = func() error

// Level is the alias of zapcore.Level.
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

// Logger 与 gnet 的 logging.Logger 方法集一致, 可直接传给 gnet.WithLogger
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

var (
	defaultLogger       Logger
	defaultFlusher      Flusher
	defaultLoggingLevel = InfoLevel
)

func init() {
	if lvl := os.Getenv(EnvLoggingLevel); len(lvl) > 0 {
		l, err := strconv.ParseInt(lvl, 10, 8)
		if err != nil {
			panic("invalid " + EnvLoggingLevel + ": " + err.Error())
		}
		defaultLoggingLevel = Level(l)
	}

	var err error
	if fileName := os.Getenv(EnvLoggingFile); len(fileName) > 0 {
		defaultLogger, defaultFlusher, err = CreateLoggerAsLocalFile(fileName, defaultLoggingLevel)
	} else {
		defaultLogger, defaultFlusher, err = CreateConsoleLogger(defaultLoggingLevel)
	}
	if err != nil {
		panic("unable to create the default logger: " + err.Error())
	}
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// CreateConsoleLogger 输出到标准输出, 级别带颜色
func CreateConsoleLogger(logLevel Level) (Logger, Flusher, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(logLevel)
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return zapLogger.Sugar(), zapLogger.Sync, nil
}

// CreateLoggerAsLocalFile 输出到本地文件, 单文件100M, 保留2个备份, 最长15天
func CreateLoggerAsLocalFile(localFilePath string, logLevel Level) (Logger, Flusher, error) {
	if len(localFilePath) == 0 {
		return nil, nil, errors.New("invalid local logger path")
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   localFilePath,
		MaxSize:    100,
		MaxBackups: 2,
		MaxAge:     15,
		Compress:   false,
	}

	ws := zapcore.Lock(zapcore.AddSync(lumberJackLogger))
	levelEnabler := zap.LevelEnablerFunc(func(level Level) bool {
		return level >= logLevel
	})
	core := zapcore.NewCore(getEncoder(), ws, levelEnabler)
	zapLogger := zap.New(core, zap.AddCaller())
	return zapLogger.Sugar(), zapLogger.Sync, nil
}

// GetDefaultLogger 返回全局默认的日志对象
func GetDefaultLogger() Logger {
	return defaultLogger
}

// GetDefaultFlusher 返回默认日志的刷盘函数
func GetDefaultFlusher() Flusher {
	return defaultFlusher
}

// SetDefaultLoggerAndFlusher 替换全局日志, 测试或嵌入其他程序时使用
func SetDefaultLoggerAndFlusher(logger Logger, flusher Flusher) {
	defaultLogger, defaultFlusher = logger, flusher
}

// Cleanup 刷盘, 程序退出前调用
func Cleanup() {
	if defaultFlusher != nil {
		_ = defaultFlusher()
	}
}

func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	defaultLogger.Fatalf(format, args...)
}
