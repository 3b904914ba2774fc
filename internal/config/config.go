package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server       ServerConfig
	Telegram     TelegramConfig
	Sheets       SheetsConfig
	Catalog      CatalogConfig
	Conversation ConversationConfig
	QR           QRConfig
	MongoDB      MongoDBConfig
	Timezone     string
}

// ServerConfig holds options for the operational HTTP server.
type ServerConfig struct {
	Port string
}

// TelegramConfig contains credentials for the Telegram Bot API.
type TelegramConfig struct {
	Token string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath  string
	SpreadsheetID    string
	TransactionSheet string
	SparepartSheet   string
}

// CatalogConfig controls how master-sheet columns are matched to semantic
// fields and how often the in-memory index is rebuilt.
type CatalogConfig struct {
	PartIDHeaders   []string
	NameHeaders     []string
	LocationHeaders []string
	VisualHeaders   []string
	RefreshSchedule string
}

// ConversationConfig holds validation options for the guided flows.
type ConversationConfig struct {
	KondisiOptions []string
	StrictPartID   bool
	SessionTimeout time.Duration
}

// QRConfig points at the HTTP QR decode service used for photo input.
// An empty URL disables photo handling.
type QRConfig struct {
	DecodeURL string
}

// MongoDBConfig holds settings for the optional transaction audit trail.
// An empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	timeoutMinutes, err := strconv.Atoi(getenvWithDefault("SESSION_TIMEOUT_MINUTES", "10"))
	if err != nil || timeoutMinutes <= 0 {
		return nil, fmt.Errorf("SESSION_TIMEOUT_MINUTES must be a positive integer")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath:  os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:    os.Getenv("SPREADSHEET_ID"),
			TransactionSheet: getenvWithDefault("SHEET_NAME", "TransaksiGudang"),
			SparepartSheet:   getenvWithDefault("SPAREPART_SHEET", "Sparepart"),
		},
		Catalog: CatalogConfig{
			PartIDHeaders:   splitList(getenvWithDefault("SPAREPART_PARTID_HEADERS", "PartID,Part ID,Kode Part,ID Part,ID Barang")),
			NameHeaders:     splitList(getenvWithDefault("SPAREPART_NAME_HEADERS", "NamaPart,Nama Barang,Nama,Deskripsi,Part Name")),
			LocationHeaders: splitList(getenvWithDefault("SPAREPART_LOCATION_HEADERS", "KodeLokasi,Lokasi,Rak")),
			VisualHeaders:   splitList(getenvWithDefault("SPAREPART_VISUAL_HEADERS", "Visual,Visual Management,Foto,Image,Gambar,Link Visual")),
			RefreshSchedule: getenvWithDefault("CATALOG_REFRESH_SCHEDULE", "@every 15m"),
		},
		Conversation: ConversationConfig{
			KondisiOptions: splitList(getenvWithDefault("KONDISI_OPTIONS", "baru,used,repair,scrap")),
			StrictPartID:   parseBool(os.Getenv("STRICT_PARTID")),
			SessionTimeout: time.Duration(timeoutMinutes) * time.Minute,
		},
		QR: QRConfig{
			DecodeURL: getenvWithDefault("QR_DECODE_URL", "https://api.qrserver.com/v1/read-qr-code/"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "gudangbot"),
		},
		Timezone: getenvWithDefault("TIMEZONE", "Asia/Jakarta"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN must be provided")
	}

	switch {
	case c.Sheets.CredentialsPath == "":
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
	case c.Sheets.SpreadsheetID == "":
		return errors.New("SPREADSHEET_ID must be provided")
	case c.Sheets.TransactionSheet == "":
		return errors.New("SHEET_NAME must not be empty")
	case c.Sheets.SparepartSheet == "":
		return errors.New("SPAREPART_SHEET must not be empty")
	}

	if len(c.Catalog.PartIDHeaders) == 0 {
		return errors.New("SPAREPART_PARTID_HEADERS must not be empty")
	}

	if len(c.Conversation.KondisiOptions) == 0 {
		return errors.New("KONDISI_OPTIONS must contain at least one option")
	}

	if c.Catalog.RefreshSchedule == "" {
		return errors.New("CATALOG_REFRESH_SCHEDULE must be provided")
	}

	if c.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed
}
