package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "QUESTION_CACHE_TTL", "EVALUATION_CONCURRENCY", "CACHE_ENABLED", "AUTO_MIGRATE", "EVENTS_PUBLISHER", "KAFKA_BROKERS"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.CacheEnabled)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 10*time.Minute, cfg.QuestionCacheTTL)
	assert.Equal(t, 8, cfg.EvaluationConcurrency)
	assert.Equal(t, PublisherKafka, cfg.Events.Publisher)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("QUESTION_CACHE_TTL", "90s")
	t.Setenv("EVALUATION_CONCURRENCY", "2")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("EVALUATION_TOPIC", "grading")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 90*time.Second, cfg.QuestionCacheTTL)
	assert.Equal(t, 2, cfg.EvaluationConcurrency)
	assert.False(t, cfg.CacheEnabled)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "grading", cfg.Events.Topic)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("QUESTION_CACHE_TTL", "soon")
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "QUESTION_CACHE_TTL")

	t.Setenv("QUESTION_CACHE_TTL", "1m")
	t.Setenv("EVALUATION_CONCURRENCY", "many")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "EVALUATION_CONCURRENCY")

	t.Setenv("EVALUATION_CONCURRENCY", "4")
	t.Setenv("EVENTS_PUBLISHER", "rabbit")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "EVENTS_PUBLISHER")
}

func TestEventConfig_NewPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name   string
		config EventConfig
	}{
		{name: "disabled", config: EventConfig{Enabled: false, Publisher: PublisherKafka, Brokers: []string{"k1:9092"}}},
		{name: "mock", config: EventConfig{Enabled: true, Publisher: PublisherMock}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := tt.config.NewPublisher(logger)
			require.NoError(t, err)
			assert.IsType(t, &events.MockEventPublisher{}, publisher)
			assert.NoError(t, publisher.Close())
		})
	}
}

func TestEventConfig_NewPublisher_KafkaWithoutBrokers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := EventConfig{Enabled: true, Publisher: PublisherKafka}.NewPublisher(logger)
	assert.ErrorContains(t, err, "no kafka brokers")
}
