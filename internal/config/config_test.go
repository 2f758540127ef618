package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/form-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DRAFT_TTL", "")
	t.Setenv("AUTH_ENABLED", "")
	t.Setenv("REDIS_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
	assert.False(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "form-events", cfg.Events.FormTopic)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("DRAFT_TTL", "90m")
	t.Setenv("SHARED_FORM_CACHE_TTL", "not-a-duration")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 90*time.Minute, cfg.DraftTTL)
	assert.Equal(t, 5*time.Minute, cfg.SharedFormCacheTTL)
	assert.True(t, cfg.Auth.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestEventConfig_CreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	disabled := EventConfig{Enabled: false, Publisher: "kafka"}
	pub, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	inProcess := EventConfig{Enabled: true, Publisher: "gochannel", FormTopic: "t"}
	pub, err = inProcess.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.WatermillEventPublisher{}, pub)
	assert.NoError(t, pub.Close())

	unknown := EventConfig{Enabled: true, Publisher: "nats"}
	pub, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, pub)

	brokers := EventConfig{KafkaBrokers: "a:9092, b:9092,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, brokers.GetKafkaBrokers())
}
