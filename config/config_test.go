package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cmdelgado/tip-distribution-service/dto"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("OCR_POLL_INTERVAL_MS", "")
	t.Setenv("OCR_POLL_MAX_ATTEMPTS", "")
	t.Setenv("PAYOUT_ROUNDING", "")
	t.Setenv("DEDUP_GRANULARITY", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 30, cfg.PollMaxAttempts)
	assert.Equal(t, dto.PayoutRoundNearest, cfg.PayoutRounding)
	assert.Equal(t, dto.MatchByName, cfg.DedupGranularity)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "5242880")
	t.Setenv("OCR_POLL_INTERVAL_MS", "250")
	t.Setenv("OCR_POLL_MAX_ATTEMPTS", "5")
	t.Setenv("PAYOUT_ROUNDING", "up")
	t.Setenv("DEDUP_GRANULARITY", "record")

	cfg := LoadConfig()

	assert.Equal(t, int64(5242880), cfg.MaxFileSize)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5, cfg.PollMaxAttempts)
	assert.Equal(t, dto.PayoutRoundUp, cfg.PayoutRounding)
	assert.Equal(t, dto.MatchByRecord, cfg.DedupGranularity)
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "-1")
	t.Setenv("OCR_POLL_INTERVAL_MS", "zero")

	cfg := LoadConfig()

	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, time.Second, cfg.PollInterval)
}