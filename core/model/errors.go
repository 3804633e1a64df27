package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure returned by the coordinator unwraps to one of
// these so callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflictBlocked     = errors.New("conflict blocked")
	ErrNoUnassignedMission = errors.New("no unassigned mission")
	ErrNoEligibleResource  = errors.New("no eligible resource")
	ErrNoStandbyPilot      = errors.New("no standby pilot")
	ErrNotAssigned         = errors.New("not assigned")
	ErrValidation          = errors.New("validation error")
)

var kindNames = map[error]string{
	ErrNotFound:            "NotFound",
	ErrConflictBlocked:     "ConflictBlocked",
	ErrNoUnassignedMission: "NoUnassignedMission",
	ErrNoEligibleResource:  "NoEligibleResource",
	ErrNoStandbyPilot:      "NoStandbyPilot",
	ErrNotAssigned:         "NotAssigned",
	ErrValidation:          "ValidationError",
}

// OpError describes an expected, recoverable failure of a coordinator
// operation or of ingestion.
type OpError struct {
	Kind     error
	Entity   string
	ID       string
	Blockers []string
	Msg      string
}

func (e *OpError) Error() string {
	var b strings.Builder
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.Error())
		if e.Entity != "" {
			fmt.Fprintf(&b, ": %s %q", e.Entity, e.ID)
		}
	}
	if len(e.Blockers) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Blockers, " "))
	}
	return b.String()
}

// Unwrap exposes the kind sentinel.
func (e *OpError) Unwrap() error { return e.Kind }

// NotFound returns an ErrNotFound error for the given entity.
func NotFound(entity, id string) error {
	return &OpError{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Blocked returns an ErrConflictBlocked error carrying the blocker messages.
func Blocked(missionID string, blockers []string) error {
	return &OpError{
		Kind:     ErrConflictBlocked,
		Entity:   "mission",
		ID:       missionID,
		Blockers: blockers,
		Msg:      fmt.Sprintf("assignment to mission %s blocked", missionID),
	}
}

// Invalid returns an ErrValidation error with a formatted message.
func Invalid(format string, args ...any) error {
	return &OpError{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the stable name of the error kind, or "Internal" for errors
// outside the taxonomy.
func KindOf(err error) string {
	for sentinel, name := range kindNames {
		if errors.Is(err, sentinel) {
			return name
		}
	}
	return "Internal"
}

// BlockersOf returns the blocker messages carried by err, if any.
func BlockersOf(err error) []string {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Blockers
	}
	return nil
}
