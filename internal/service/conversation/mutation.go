package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/catalog"
	"github.com/adiwinata/gudangbot/internal/domain/models"
	"github.com/adiwinata/gudangbot/internal/service/transactions"
)

const candidateLimit = 10

// advanceMutation consumes one input for the /mutasi flow. Invalid input
// re-prompts the same step without touching the collected fields; only a
// successfully validated value moves the step forward.
func (s *Service) advanceMutation(ctx context.Context, userID string, state State, input string) Reply {
	switch state.Step {
	case StepPart:
		return s.mutationPart(ctx, userID, state, input)
	case StepPartSelect:
		return s.mutationPartSelect(userID, state, input)
	case StepJenis:
		return s.mutationJenis(userID, state, input)
	case StepJumlah:
		return s.mutationJumlah(userID, state, input)
	case StepKondisi:
		return s.mutationKondisi(userID, state, input)
	case StepTujuan:
		return s.mutationTujuan(ctx, userID, state, input)
	case StepRetry:
		return s.mutationRetry(ctx, userID, state, input)
	default:
		s.sessions.Clear(userID)
		return textReply(helpText)
	}
}

func (s *Service) mutationPart(ctx context.Context, userID string, state State, input string) Reply {
	query := strings.TrimSpace(input)
	if query == "" {
		return textReply("Masukan kosong. Kirim foto QR atau ketik PartID/Nama.")
	}

	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.logger.Warn("sparepart lookup skipped", zap.Error(err))
		if s.cfg.StrictPartID {
			return textReply("⚠️ Gagal akses master Sparepart. Mode ketat aktif; coba lagi atau /batal.")
		}
		return s.acceptPart(userID, state, models.PartRecord{PartID: query},
			"⚠️ Gagal akses master Sparepart; PartID disimpan apa adanya.")
	}

	switch len(results) {
	case 0:
		if s.cfg.StrictPartID {
			return textReply("PartID tidak ditemukan di master Sparepart (mode ketat). Periksa kembali atau /batal.")
		}
		return s.acceptPart(userID, state, models.PartRecord{PartID: query},
			"⚠️ PartID tidak ditemukan di master; disimpan apa adanya.")
	case 1:
		return s.acceptPart(userID, state, results[0], "")
	default:
		state.Candidates = capCandidates(results)
		state.Step = StepPartSelect
		s.touch(userID, state)
		return candidatesReply(state.Candidates)
	}
}

func (s *Service) mutationPartSelect(userID string, state State, input string) Reply {
	chosen, ok := pickCandidate(state.Candidates, input)
	if !ok {
		reply := candidatesReply(state.Candidates)
		reply.Text = "Pilihan tidak dikenal. " + reply.Text
		return reply
	}

	state.Candidates = nil
	return s.acceptPart(userID, state, chosen, "")
}

// acceptPart fixes the part identifier and advances to the movement type step.
func (s *Service) acceptPart(userID string, state State, part models.PartRecord, warning string) Reply {
	state.Draft.PartID = part.PartID
	state.Draft.PartName = part.Name
	state.Step = StepJenis
	s.touch(userID, state)

	text := fmt.Sprintf("PartID: %s\nPilih Jenis (IN/OUT):", part.PartID)
	if warning != "" {
		text = warning + "\n" + text
	}
	return Reply{Text: text, Options: jenisOptions()}
}

func (s *Service) mutationJenis(userID string, state State, input string) Reply {
	jenis, err := models.ParseMovementType(input)
	if err != nil {
		return Reply{Text: "Jenis tidak valid. Pilih IN atau OUT.", Options: jenisOptions()}
	}

	state.Draft.Jenis = jenis
	state.Step = StepJumlah
	s.touch(userID, state)
	return textReply(fmt.Sprintf("Jenis: %s\nMasukkan Jumlah (angka > 0).", jenis))
}

func (s *Service) mutationJumlah(userID string, state State, input string) Reply {
	qty, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return textReply("Jumlah tidak valid: harus angka bulat. Masukkan nilai > 0.")
	}
	if qty <= 0 {
		return textReply("Jumlah tidak valid: harus lebih dari 0.")
	}

	state.Draft.Jumlah = qty
	state.Step = StepKondisi
	s.touch(userID, state)
	return Reply{Text: "Pilih Kondisi:", Options: s.kondisiChoices()}
}

func (s *Service) mutationKondisi(userID string, state State, input string) Reply {
	kondisi, ok := s.matchKondisi(input)
	if !ok {
		return Reply{
			Text:    fmt.Sprintf("Kondisi tidak valid. Pilihan: %s.", strings.Join(s.cfg.KondisiOptions, ", ")),
			Options: s.kondisiChoices(),
		}
	}

	state.Draft.Kondisi = kondisi
	state.Step = StepTujuan
	s.touch(userID, state)
	return textReply(fmt.Sprintf("Kondisi: %s\nTulis Tujuan/Penggunaan (singkat).", kondisi))
}

func (s *Service) mutationTujuan(ctx context.Context, userID string, state State, input string) Reply {
	tujuan := strings.TrimSpace(input)
	if tujuan == "" {
		return textReply("Tujuan tidak boleh kosong. Tulis Tujuan/Penggunaan (singkat).")
	}

	state.Draft.Tujuan = tujuan
	return s.commitMutation(ctx, userID, state)
}

func (s *Service) mutationRetry(ctx context.Context, userID string, state State, input string) Reply {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "simpan", "ulangi", "retry":
		return s.commitMutation(ctx, userID, state)
	default:
		return Reply{
			Text:    "Ketik 'simpan' untuk mencoba lagi atau /batal untuk membatalkan.",
			Options: retryOptions(),
		}
	}
}

// commitMutation appends the assembled record. Success destroys the session;
// failure keeps the collected fields and parks the session on the retry step
// so the user never re-enters prior answers.
func (s *Service) commitMutation(ctx context.Context, userID string, state State) Reply {
	record := models.TransactionRecord{
		PartID:  state.Draft.PartID,
		Jenis:   state.Draft.Jenis,
		Jumlah:  state.Draft.Jumlah,
		Kondisi: state.Draft.Kondisi,
		UserID:  userID,
		Tujuan:  state.Draft.Tujuan,
	}

	saved, err := s.writer.Append(ctx, record)
	if err != nil {
		s.logger.Error("transaction append failed", zap.Error(err), zap.String("user_id", userID))
		state.Step = StepRetry
		s.touch(userID, state)
		return Reply{
			Text:    "❌ Gagal menyimpan ke sheet. Data yang sudah diisi tetap tersimpan di percakapan ini.",
			Options: retryOptions(),
		}
	}

	s.sessions.Clear(userID)
	return textReply(fmt.Sprintf(
		"✅ Tersimpan ke %s\nWaktu: %s\nPartID: %s\nJenis: %s | Jumlah: %d | Kondisi: %s",
		s.sheetName,
		saved.Timestamp.Format(transactions.TimestampLayout),
		saved.PartID,
		saved.Jenis,
		saved.Jumlah,
		saved.Kondisi,
	))
}

func (s *Service) matchKondisi(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	for _, opt := range s.cfg.KondisiOptions {
		if strings.EqualFold(opt, trimmed) {
			return opt, true
		}
	}
	return "", false
}

func (s *Service) kondisiChoices() []Option {
	opts := make([]Option, 0, len(s.cfg.KondisiOptions))
	for _, k := range s.cfg.KondisiOptions {
		opts = append(opts, Option{Label: k, Value: k})
	}
	return opts
}

func jenisOptions() []Option {
	return []Option{
		{Label: string(models.MovementIn), Value: string(models.MovementIn)},
		{Label: string(models.MovementOut), Value: string(models.MovementOut)},
	}
}

func retryOptions() []Option {
	return []Option{
		{Label: "Simpan Ulang", Value: "simpan"},
		{Label: "Batal", Value: "/batal"},
	}
}

func capCandidates(results []models.PartRecord) []models.PartRecord {
	if len(results) > candidateLimit {
		return results[:candidateLimit]
	}
	return results
}

// pickCandidate resolves a selection by 1-based list position or by part
// identifier (normalized, so "p-123" matches "P123").
func pickCandidate(candidates []models.PartRecord, input string) (models.PartRecord, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return models.PartRecord{}, false
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1], true
	}

	wanted := catalog.NormalizeID(trimmed)
	for _, cand := range candidates {
		if catalog.NormalizeID(cand.PartID) == wanted {
			return cand, true
		}
	}
	return models.PartRecord{}, false
}

func candidatesReply(candidates []models.PartRecord) Reply {
	var b strings.Builder
	b.WriteString("Ditemukan beberapa kandidat. Pilih salah satu:")
	opts := make([]Option, 0, len(candidates))
	for i, cand := range candidates {
		label := candidateLabel(cand)
		fmt.Fprintf(&b, "\n%d. %s", i+1, label)
		opts = append(opts, Option{Label: label, Value: cand.PartID})
	}
	return Reply{Text: b.String(), Options: opts}
}

func candidateLabel(part models.PartRecord) string {
	name := part.Name
	if runes := []rune(name); len(runes) > 40 {
		name = string(runes[:40])
	}
	if name == "" {
		return part.PartID
	}
	return part.PartID + " — " + name
}
