package helper

import (
	"context"
	"strings"
	"time"
)

// NormInterval приводит таймфрейм к виду 1m/5m/15m/1h/1d.
// Понимает "60m", "1d"/"24h"/"day" и префикс "candle" (например "candle1m").
func NormInterval(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	s = strings.TrimPrefix(s, "_")
	switch s {
	case "1min", "1m":
		return "1m"
	case "5min", "5m":
		return "5m"
	case "15min", "15m":
		return "15m"
	case "60m", "1h", "hour":
		return "1h"
	case "24h", "1d", "day":
		return "1d"
	default:
		return s
	}
}

// Sleep ждёт d или отмену ctx, что раньше. d <= 0 только проверяет ctx.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
