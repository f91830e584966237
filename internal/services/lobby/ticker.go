package lobby

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRulesInterval is how often running matches are polled
const DefaultRulesInterval = time.Second

// RulesChecker is polled by the RulesTicker
type RulesChecker interface {
	CheckGameRules()
}

// RulesTicker drives time-based game rules
type RulesTicker struct {
	checker  RulesChecker
	interval time.Duration
	logger   *slog.Logger
}

// NewRulesTicker creates a ticker polling checker every interval
func NewRulesTicker(checker RulesChecker, interval time.Duration, logger *slog.Logger) *RulesTicker {
	if interval <= 0 {
		interval = DefaultRulesInterval
	}
	return &RulesTicker{
		checker:  checker,
		interval: interval,
		logger:   logger.With(slog.String("component", "rules-ticker")),
	}
}

// Run polls until ctx is cancelled
func (t *RulesTicker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("rules ticker started", slog.Duration("interval", t.interval))
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("rules ticker stopped")
			return
		case <-ticker.C:
			t.checker.CheckGameRules()
		}
	}
}
