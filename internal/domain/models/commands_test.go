package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adiwinata/gudangbot/internal/domain/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    models.CommandType
	}{
		{"start", "/start", models.CommandStart},
		{"help alias", "/help", models.CommandStart},
		{"mutasi", "/mutasi", models.CommandMutasi},
		{"mutasi uppercase", "/MUTASI", models.CommandMutasi},
		{"cari", "/cari", models.CommandCari},
		{"batal", "/batal", models.CommandCancel},
		{"cancel alias", "/cancel", models.CommandCancel},
		{"group chat suffix", "/mutasi@gudangbot", models.CommandMutasi},
		{"leading whitespace", "  /cari  ", models.CommandCari},
		{"unknown slash command", "/laporan", models.CommandUnknown},
		{"plain text", "BRG-001", models.CommandNone},
		{"empty", "", models.CommandNone},
		{"slash mid-sentence", "pakai /mutasi dong", models.CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, models.ParseCommand(tt.message).Type)
		})
	}
}

func TestParseCommand_Args(t *testing.T) {
	cmd := models.ParseCommand("/cari bearing 6204")
	require.Equal(t, models.CommandCari, cmd.Type)
	require.Equal(t, []string{"bearing", "6204"}, cmd.Args)
}
