package conversation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/config"
	"github.com/adiwinata/gudangbot/internal/domain/models"
	"github.com/adiwinata/gudangbot/internal/service/transactions"
)

// Catalog is the part lookup surface the flows depend on.
type Catalog interface {
	Search(ctx context.Context, query string) ([]models.PartRecord, error)
}

const helpText = "Halo! Perintah tersedia:\n" +
	"- /mutasi — catat IN/OUT (PartID/Nama → Jenis → Jumlah → Kondisi → Tujuan → simpan)\n" +
	"- /cari — cari sparepart (by PartID atau Nama)\n" +
	"- /batal — batalkan percakapan aktif"

// Service routes inbound chat messages: top-level commands start or cancel
// conversations, plain text advances the active one. Each user's session is
// handled independently; messages for the same user are serialized behind a
// per-user lock, so steps within one session stay strictly sequential even
// when the transport delivers updates concurrently.
type Service struct {
	sessions  *SessionManager
	locks     *keyedMutex
	catalog   Catalog
	writer    transactions.Writer
	cfg       config.ConversationConfig
	sheetName string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs the conversation dispatcher.
func NewService(sessions *SessionManager, catalog Catalog, writer transactions.Writer, cfg config.ConversationConfig, sheetName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:  sessions,
		locks:     newKeyedMutex(),
		catalog:   catalog,
		writer:    writer,
		cfg:       cfg,
		sheetName: sheetName,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleMessage consumes one inbound message for a user and returns the
// reply. A new top-level command cancels any conversation in progress before
// starting; expired sessions are discarded on first touch. Calls for the
// same user are serialized, so a step that commits a transaction finishes
// (and destroys the session) before the next message is looked at.
func (s *Service) HandleMessage(ctx context.Context, userID, text string) Reply {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	cmd := models.ParseCommand(text)

	switch cmd.Type {
	case models.CommandStart:
		s.sessions.Clear(userID)
		return textReply(helpText)

	case models.CommandCancel:
		if _, active := s.sessions.Get(userID); active {
			s.sessions.Clear(userID)
			return textReply("Dibatalkan.")
		}
		return textReply("Tidak ada percakapan yang aktif.")

	case models.CommandMutasi:
		s.startSession(userID, models.CommandMutasi, StepPart)
		if len(cmd.Args) > 0 {
			state, _ := s.sessions.Get(userID)
			return s.advanceMutation(ctx, userID, state, strings.Join(cmd.Args, " "))
		}
		return textReply("Kirim foto QR atau ketik PartID/Nama Barang.")

	case models.CommandCari:
		s.startSession(userID, models.CommandCari, StepKeyword)
		if len(cmd.Args) > 0 {
			state, _ := s.sessions.Get(userID)
			return s.advanceSearch(ctx, userID, state, strings.Join(cmd.Args, " "))
		}
		return textReply("Ketik nama barang atau PartID yang ingin dicari.")

	case models.CommandUnknown:
		return textReply("Perintah tidak dikenal. Gunakan /mutasi, /cari, atau /batal.")
	}

	state, active := s.sessions.Get(userID)
	if !active {
		return textReply(helpText)
	}

	if s.now().Sub(state.UpdatedAt) > s.cfg.SessionTimeout {
		s.sessions.Clear(userID)
		s.logger.Debug("session expired", zap.String("user_id", userID))
		return textReply("Sesi sebelumnya berakhir karena tidak aktif.\n" + helpText)
	}

	switch state.Command {
	case models.CommandMutasi:
		return s.advanceMutation(ctx, userID, state, text)
	case models.CommandCari:
		return s.advanceSearch(ctx, userID, state, text)
	default:
		// Unreachable unless a session was stored with a foreign command.
		s.sessions.Clear(userID)
		return textReply(helpText)
	}
}

func (s *Service) startSession(userID string, command models.CommandType, step Step) {
	s.sessions.Put(userID, State{
		Command:   command,
		Step:      step,
		UpdatedAt: s.now(),
	})
}

// touch persists the state with a fresh activity timestamp.
func (s *Service) touch(userID string, state State) {
	state.UpdatedAt = s.now()
	s.sessions.Put(userID, state)
}
