package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/credentials.json")
	t.Setenv("SPREADSHEET_ID", "sheet-id-abc")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "TransaksiGudang", cfg.Sheets.TransactionSheet)
	require.Equal(t, "Sparepart", cfg.Sheets.SparepartSheet)
	require.Equal(t, "@every 15m", cfg.Catalog.RefreshSchedule)
	require.Equal(t, []string{"baru", "used", "repair", "scrap"}, cfg.Conversation.KondisiOptions)
	require.False(t, cfg.Conversation.StrictPartID)
	require.Equal(t, 10*time.Minute, cfg.Conversation.SessionTimeout)
	require.Equal(t, "Asia/Jakarta", cfg.Timezone)
	require.Empty(t, cfg.MongoDB.URI)
	require.Contains(t, cfg.Catalog.NameHeaders, "Nama Barang")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEET_NAME", "LogMutasi")
	t.Setenv("SPAREPART_NAME_HEADERS", "Deskripsi Barang, Nama ")
	t.Setenv("STRICT_PARTID", "true")
	t.Setenv("SESSION_TIMEOUT_MINUTES", "30")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "LogMutasi", cfg.Sheets.TransactionSheet)
	require.Equal(t, []string{"Deskripsi Barang", "Nama"}, cfg.Catalog.NameHeaders)
	require.True(t, cfg.Conversation.StrictPartID)
	require.Equal(t, 30*time.Minute, cfg.Conversation.SessionTimeout)
}

func TestLoad_MissingToken(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "TELEGRAM_TOKEN")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TIMEOUT_MINUTES", "-5")

	_, err := Load("")
	require.Error(t, err)
}
