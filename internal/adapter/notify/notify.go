package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rl1809/rocketshoes-cart/internal/port"
)

// Logger surfaces shopper notifications as warn-level log lines.
type Logger struct {
	log *logrus.Entry
}

func NewLogger(log *logrus.Entry) *Logger {
	return &Logger{log: log}
}

func (l *Logger) Error(ctx context.Context, message string) {
	l.log.WithContext(ctx).WithField("toast", "error").Warn(message)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Error(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

// Counts groups recorded messages by text.
func (r *Recorder) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int, len(r.messages))
	for _, m := range r.messages {
		counts[m]++
	}
	return counts
}

// Fanout delivers every notification to all of its notifiers.
type Fanout []port.Notifier

func (f Fanout) Error(ctx context.Context, message string) {
	for _, n := range f {
		n.Error(ctx, message)
	}
}
