package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/domain/models"
)

// advanceSearch consumes one input for the /cari flow.
func (s *Service) advanceSearch(ctx context.Context, userID string, state State, input string) Reply {
	switch state.Step {
	case StepKeyword:
		return s.searchKeyword(ctx, userID, state, input)
	case StepResultSelect:
		return s.searchSelect(userID, state, input)
	default:
		s.sessions.Clear(userID)
		return textReply(helpText)
	}
}

func (s *Service) searchKeyword(ctx context.Context, userID string, state State, input string) Reply {
	query := strings.TrimSpace(input)
	if len([]rune(query)) < 2 {
		return textReply("Input terlalu pendek. Minimal 2 huruf/angka.")
	}

	results, err := s.catalog.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", zap.Error(err))
		s.sessions.Clear(userID)
		return textReply("⚠️ Master katalog tidak dapat diakses. Coba lagi nanti.")
	}

	switch len(results) {
	case 0:
		return textReply("Tidak ada hasil. Coba kata kunci lain.")
	case 1:
		s.sessions.Clear(userID)
		return textReply(renderPart(results[0]))
	default:
		state.Candidates = capCandidates(results)
		state.Step = StepResultSelect
		s.touch(userID, state)
		return candidatesReply(state.Candidates)
	}
}

func (s *Service) searchSelect(userID string, state State, input string) Reply {
	chosen, ok := pickCandidate(state.Candidates, input)
	if !ok {
		reply := candidatesReply(state.Candidates)
		reply.Text = "Pilihan tidak dikenal. " + reply.Text
		return reply
	}

	s.sessions.Clear(userID)
	return textReply(renderPart(chosen))
}

// renderPart formats the final /cari result, substituting display
// placeholders for absent location and visual fields.
func renderPart(part models.PartRecord) string {
	name := part.Name
	if name == "" {
		name = "-"
	}
	location := part.Location
	if location == "" {
		location = "-"
	}
	visual := part.Visual
	if visual == "" {
		visual = "(Visual belum tersedia)"
	}
	return fmt.Sprintf("Hasil\nPartID: %s\nNama: %s\nLokasi: %s\nVisual: %s", part.PartID, name, location, visual)
}
