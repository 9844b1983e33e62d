package worker

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Progress logs batch progress, throttled so large splits do not flood the log
type Progress struct {
	label   string
	total   int64
	done    atomic.Int64
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewProgress creates a progress reporter emitting at most one line per interval
func NewProgress(label string, total int, interval time.Duration, logger zerolog.Logger) *Progress {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Progress{
		label:   label,
		total:   int64(total),
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// Done records a finished document
func (p *Progress) Done(docID string) {
	n := p.done.Add(1)
	if n == p.total || p.limiter.Allow() {
		p.logger.Info().
			Str("split", p.label).
			Str("docid", docID).
			Int64("done", n).
			Int64("total", p.total).
			Msg("progress")
	}
}

// Count returns the number of finished documents
func (p *Progress) Count() int64 {
	return p.done.Load()
}
