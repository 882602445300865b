package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cmdelgado/tip-distribution-service/dto"
)

type Config struct {
	ServerPort        string
	DocAnalysisURL    string
	DocAnalysisKey    string
	PollInterval      time.Duration
	PollMaxAttempts   int
	TesseractDataPath string
	PayoutRounding    dto.PayoutRounding
	DedupGranularity  dto.MatchGranularity
	MaxFileSize       int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	pollInterval := 1000
	if v, err := strconv.Atoi(os.Getenv("OCR_POLL_INTERVAL_MS")); err == nil && v > 0 {
		pollInterval = v
	}

	pollMaxAttempts := 30
	if v, err := strconv.Atoi(os.Getenv("OCR_POLL_MAX_ATTEMPTS")); err == nil && v > 0 {
		pollMaxAttempts = v
	}

	rounding := dto.PayoutRoundNearest
	if os.Getenv("PAYOUT_ROUNDING") == string(dto.PayoutRoundUp) {
		rounding = dto.PayoutRoundUp
	}

	granularity := dto.MatchByName
	if os.Getenv("DEDUP_GRANULARITY") == string(dto.MatchByRecord) {
		granularity = dto.MatchByRecord
	}

	maxFileSize := int64(10 * 1024 * 1024) // 10 MB
	if v, err := strconv.ParseInt(os.Getenv("MAX_FILE_SIZE"), 10, 64); err == nil && v > 0 {
		maxFileSize = v
	}

	return &Config{
		ServerPort:        serverPort,
		DocAnalysisURL:    os.Getenv("DOC_ANALYSIS_URL"),
		DocAnalysisKey:    os.Getenv("DOC_ANALYSIS_KEY"),
		PollInterval:      time.Duration(pollInterval) * time.Millisecond,
		PollMaxAttempts:   pollMaxAttempts,
		TesseractDataPath: os.Getenv("TESSDATA_PREFIX"),
		PayoutRounding:    rounding,
		DedupGranularity:  granularity,
		MaxFileSize:       maxFileSize,
	}
}
