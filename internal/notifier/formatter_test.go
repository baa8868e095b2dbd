package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRunSummary(t *testing.T) {
	msg := FormatRunSummary(&RunSummary{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Total:     30,
		Processed: 28,
		Bullish:   []string{"HPG", "FPT"},
		Bearish:   []string{"VIC"},
		Failed: map[string]string{
			"NVL": "data unavailable",
			"BVH": "no swing found",
		},
		BacktestChecked:  12,
		BacktestResolved: 5,
		BacktestCorrect:  3,
		BacktestPending:  7,
	})

	assert.Contains(t, msg, "2026-03-02")
	assert.Contains(t, msg, "28/30")
	assert.Contains(t, msg, "Bullish (2): HPG, FPT")
	assert.Contains(t, msg, "Bearish (1): VIC")
	assert.Contains(t, msg, "NVL: data unavailable")
	assert.Contains(t, msg, "12 checked, 5 resolved (3 correct), 7 pending")

	// Skipped symbols list alphabetically regardless of map order.
	assert.Less(t, strings.Index(msg, "BVH:"), strings.Index(msg, "NVL:"))
}

func TestFormatRunSummary_NoSignals(t *testing.T) {
	msg := FormatRunSummary(&RunSummary{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Total:     30,
		Processed: 30,
	})
	assert.Contains(t, msg, "Bullish (0): none")
	assert.Contains(t, msg, "Bearish (0): none")
	assert.NotContains(t, msg, "Skipped")
}

func TestEnabled(t *testing.T) {
	assert.False(t, (&TelegramNotifier{}).Enabled())
	assert.True(t, NewTelegramNotifier("tok", "-100123", "").Enabled())
}
