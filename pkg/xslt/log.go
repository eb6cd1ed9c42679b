package xslt

import (
	"sync"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/logging"
)

var (
	logMu  sync.RWMutex
	logger = logging.Nop()
)

// SetLogger configures the logger used by package-level operations and by
// libraries opened without Config.Logger. Nil restores the no-op logger.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	logMu.Lock()
	logger = l
	logMu.Unlock()
}

func packageLogger() logging.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
