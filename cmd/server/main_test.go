package main

import (
	"testing"
	"time"

	"github.com/codewizard/api/internal/config"
	"github.com/codewizard/api/internal/handlers"
	"github.com/stretchr/testify/assert"
)

func TestWriteTimeoutCoversLargestRequest(t *testing.T) {
	cfg := &config.Config{SampleCount: 9, ModelTimeout: time.Minute}
	assert.Equal(t, time.Duration(handlers.MaxSamples)*time.Minute+30*time.Second, writeTimeout(cfg))

	cfg.SampleCount = 50
	assert.Equal(t, 50*time.Minute+30*time.Second, writeTimeout(cfg))
}
