package xslt

import "github.com/hsiuhsiu/libxslt-go/pkg/xslt/logging"

// Config expresses the knobs of a Library.
type Config struct {
	// Workers bounds how many compile/apply tasks run at once. Zero picks
	// GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`

	// Backlog is how many finished tasks may queue for the completion loop
	// before workers block. Zero uses Workers.
	Backlog int `yaml:"backlog" json:"backlog"`

	// RegisterExtensions registers the EXSLT function library on Open.
	RegisterExtensions bool `yaml:"register_extensions" json:"register_extensions"`

	// Logger receives library and task lifecycle records. Nil falls back to
	// the package logger set with SetLogger.
	Logger logging.Logger `yaml:"-" json:"-"`
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return packageLogger()
}
