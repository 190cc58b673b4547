package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 日志初始化参数（由 config.LogConfig 转换而来）
type LogOption struct {
	Format   string // 日志格式："console" 或 "json"
	LogDir   string // 日志目录，为空则只输出到 stdout
	Level    string // 日志级别：debug / info / warn / error
	Compress bool   // 是否压缩旧日志文件
}

var sugar = newDefault()

// newDefault 默认输出到 stdout，便于未显式 Init 的测试场景
func newDefault() *zap.SugaredLogger {
	encoder := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	return zap.New(core).Sugar()
}

// Init 按配置重建全局 logger；LogDir 非空时同时写入滚动文件
func Init(opt LogOption) error {
	level := zapcore.InfoLevel
	if err := level.Set(opt.Level); opt.Level != "" && err != nil {
		return err
	}

	var encoder zapcore.Encoder
	if opt.Format == "json" {
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig())
	} else {
		encoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if opt.LogDir != "" {
		if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
			return err
		}
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, "cnft.log"),
			MaxSize:    100, // MB
			MaxBackups: 10,
			MaxAge:     30, // 天
			Compress:   opt.Compress,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	return nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Sync 刷新缓冲日志，进程退出前调用
func Sync() {
	_ = sugar.Sync()
}

func Debugf(format string, args ...interface{}) { sugar.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { sugar.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { sugar.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { sugar.Errorf(format, args...) }
