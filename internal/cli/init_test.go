package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traveleo/internal/config"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
)

func TestSetupLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger("warn", &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestBuildMailer(t *testing.T) {
	logger := applog.Discard()

	m := BuildMailer(&config.Config{MailTransport: "log"}, logger)
	assert.IsType(t, &notify.LogMailer{}, m)

	m = BuildMailer(&config.Config{MailTransport: "smtp", SMTPHost: "smtp.example.com", SMTPPort: "587"}, logger)
	assert.IsType(t, &notify.SMTPMailer{}, m)
}

func TestOptionalIntegrationsDisabled(t *testing.T) {
	cfg := &config.Config{}

	client, err := ConnectAMQP(cfg, applog.Discard())
	require.NoError(t, err)
	assert.Nil(t, client)

	writer, err := BuildSheetsWriter(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, writer)
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLiteDBPath: t.TempDir() + "/cli.db"}

	store, err := OpenStore(context.Background(), cfg, applog.Discard())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "sqlite", store.Driver())
}
