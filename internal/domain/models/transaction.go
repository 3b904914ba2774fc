package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MovementType classifies a transaction as stock added or removed.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// ErrInvalidMovementType indicates the input is neither IN nor OUT.
var ErrInvalidMovementType = errors.New("invalid movement type")

// ParseMovementType parses user input case-insensitively into a MovementType.
func ParseMovementType(input string) (MovementType, error) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case string(MovementIn):
		return MovementIn, nil
	case string(MovementOut):
		return MovementOut, nil
	default:
		return "", ErrInvalidMovementType
	}
}

// TransactionRecord is one inventory movement destined for the transaction
// log sheet. It is assembled incrementally across conversation turns and
// appended exactly once on commit; the Timestamp is stamped by the writer.
type TransactionRecord struct {
	Timestamp time.Time
	PartID    string
	Jenis     MovementType
	Jumlah    int
	Kondisi   string
	UserID    string
	Tujuan    string
}

// Validate checks that every field required for a commit is populated.
// Condition membership is enforced earlier, at the conversation step.
func (r TransactionRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.PartID) == "":
		return errors.New("partid must not be empty")
	case r.Jenis != MovementIn && r.Jenis != MovementOut:
		return fmt.Errorf("jenis must be %s or %s", MovementIn, MovementOut)
	case r.Jumlah <= 0:
		return errors.New("jumlah must be a positive integer")
	case strings.TrimSpace(r.Kondisi) == "":
		return errors.New("kondisi must not be empty")
	case strings.TrimSpace(r.UserID) == "":
		return errors.New("userid must not be empty")
	case strings.TrimSpace(r.Tujuan) == "":
		return errors.New("tujuan must not be empty")
	}
	return nil
}
