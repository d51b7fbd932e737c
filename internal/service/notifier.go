package service

import (
	"sync"
	"time"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/observability"

	"go.uber.org/zap"
)

// Notifier is the transient toast controller shared by the screens. A call
// to Notify replaces whatever is showing (last-write-wins, no queue) and
// restarts the fixed dismissal countdown. A generation counter makes sure a
// stale timer from an earlier toast can never clear a newer one.
type Notifier struct {
	mu       sync.Mutex
	current  domain.Notification
	visible  bool
	gen      uint64
	duration time.Duration
	onChange func(n domain.Notification, visible bool)

	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNotifier creates a notifier with the product's fixed toast duration.
func NewNotifier(metrics *observability.Metrics, logger *zap.Logger) *Notifier {
	return NewNotifierWithDuration(domain.NotificationDuration, metrics, logger)
}

// NewNotifierWithDuration creates a notifier with a custom dismissal delay.
func NewNotifierWithDuration(d time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Notifier {
	return &Notifier{
		duration: d,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnChange registers a hook invoked on every show/hide transition, so a
// frontend can render the toast. Must be set before the first Notify.
func (n *Notifier) OnChange(fn func(domain.Notification, bool)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Notify shows a message with the given severity and schedules its
// dismissal.
func (n *Notifier) Notify(message string, severity domain.Severity) {
	if message == "" {
		// A visible toast always carries a message.
		return
	}

	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.current = domain.Notification{Message: message, Severity: severity}
	n.visible = true
	fn := n.onChange
	current := n.current
	n.mu.Unlock()

	n.metrics.IncrNotification(severity.String())
	n.logger.Debug("toast shown",
		zap.String("severity", severity.String()),
		zap.String("message", message),
	)

	if fn != nil {
		fn(current, true)
	}

	time.AfterFunc(n.duration, func() { n.dismiss(gen) })
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (domain.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

func (n *Notifier) dismiss(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.visible {
		// A newer Notify superseded this timer.
		n.mu.Unlock()
		return
	}
	n.current = domain.Notification{}
	n.visible = false
	fn := n.onChange
	n.mu.Unlock()

	if fn != nil {
		fn(domain.Notification{}, false)
	}
}
