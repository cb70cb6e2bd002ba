package controller

import (
	"time"

	"github.com/goliatone/go-loanform/internal/logger"
)

// DefaultNoticeInterval is how long a notice stays up before it is dismissed.
const DefaultNoticeInterval = 5 * time.Second

// NoticeObserver is notified for every notice shown.
type NoticeObserver interface {
	ObserveNotice(kind string)
}

// Option configures the controller.
type Option func(*Controller)

// WithNoticeInterval sets the auto-dismiss delay. Zero keeps notices until the
// next one replaces them.
func WithNoticeInterval(interval time.Duration) Option {
	return func(c *Controller) {
		if interval >= 0 {
			c.noticeInterval = interval
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNoticeObserver counts notices, typically into metrics.
func WithNoticeObserver(observer NoticeObserver) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}
