package overpass

import (
	"io"
	"os"

	"go.uber.org/zap"
)

type Config struct {
	Logger *zap.SugaredLogger
	Level  zap.AtomicLevel
	Stdin  io.Reader
	Stdout io.Writer
}

func NewConfig(logger *zap.SugaredLogger, level zap.AtomicLevel) *Config {
	return &Config{
		Logger: logger,
		Level:  level,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

func (c *Config) Verbose() {
	c.Level.SetLevel(zap.DebugLevel)
}
