package conversation

import (
	"time"

	"github.com/adiwinata/gudangbot/internal/domain/models"
)

// Step identifies the position of a conversation inside its flow.
type Step int

const (
	// Mutation flow steps.
	StepPart Step = iota
	StepPartSelect
	StepJenis
	StepJumlah
	StepKondisi
	StepTujuan
	StepRetry

	// Search flow steps.
	StepKeyword
	StepResultSelect
)

// Draft accumulates validated mutation fields across turns. It lives only in
// memory; nothing is persisted until the commit step appends the full row.
type Draft struct {
	PartID   string
	PartName string
	Jenis    models.MovementType
	Jumlah   int
	Kondisi  string
	Tujuan   string
}

// State is one user's transient conversation session.
type State struct {
	Command    models.CommandType
	Step       Step
	Draft      Draft
	Candidates []models.PartRecord
	UpdatedAt  time.Time
}

// Option is a choice the transport may render as an inline keyboard button.
// Selecting it feeds Value back as the user's next input.
type Option struct {
	Label string
	Value string
}

// Reply is the transport-independent response to one inbound message.
type Reply struct {
	Text    string
	Options []Option
}

func textReply(text string) Reply {
	return Reply{Text: text}
}
