package backend

import (
	"strings"
	"sync"
)

// libxslt reports compile and runtime problems through a process-wide
// generic handler, one printf fragment at a time. Fragments are joined here
// and handed to the sink a full line at a time.
var messages struct {
	mu      sync.Mutex
	pending strings.Builder
	sink    func(string)
}

// SetMessageSink routes libxslt messages to fn. A nil fn discards them.
func SetMessageSink(fn func(string)) {
	messages.mu.Lock()
	messages.sink = fn
	messages.mu.Unlock()
}

func emitMessage(fragment string) {
	messages.mu.Lock()
	messages.pending.WriteString(fragment)
	buf := messages.pending.String()
	idx := strings.LastIndexByte(buf, '\n')
	if idx < 0 {
		messages.mu.Unlock()
		return
	}
	messages.pending.Reset()
	messages.pending.WriteString(buf[idx+1:])
	sink := messages.sink
	messages.mu.Unlock()

	if sink == nil {
		return
	}
	for _, line := range strings.Split(buf[:idx], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sink(line)
		}
	}
}
