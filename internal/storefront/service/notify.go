package service

import (
	"log/slog"
	"sync"
)

// Notifier receives the user-visible outcome messages the services emit:
// transient failures, terminal checkout outcomes, confirmation success. The
// gateway surfaces the latest one alongside checkout status.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Notification is a single user-visible message.
type Notification struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// LogNotifier records notifications to the structured log and keeps the most
// recent one for polling.
type LogNotifier struct {
	logger *slog.Logger

	mu   sync.Mutex
	last Notification
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info("notification", "level", "success", "message", msg)
	n.store(Notification{Level: "success", Message: msg})
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Warn("notification", "level", "error", "message", msg)
	n.store(Notification{Level: "error", Message: msg})
}

// Last returns the most recent notification, or a zero Notification.
func (n *LogNotifier) Last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

func (n *LogNotifier) store(notif Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = notif
}
