package logger

import (
	"os"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Error = errs.Class("logger")

type Config struct {
	Level       string `help:"日志级别[debug|info|warn|error]" default:"info"`
	Development bool   `help:"开发模式,输出彩色可读日志" default:"false"`
	File        string `help:"日志文件,为空时输出到stderr" default:""`
	MaxSizeMB   int    `help:"单个日志文件最大MB" default:"100"`
	MaxBackups  int    `help:"保留的旧日志文件数" default:"3"`
}

// New builds a zap logger. With File set the output goes to a rotating file.
func New(conf Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, Error.Wrap(err)
		}
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if conf.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if conf.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	opts := []zap.Option{zap.AddCaller()}
	if conf.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewCore(enc, sink, level), opts...), nil
}
