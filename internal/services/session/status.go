package session

import (
	"github.com/pkg/errors"

	"ringchat/internal/domain"
)

// ErrInvalidTransition is returned when a status change is not in the table.
var ErrInvalidTransition = errors.Wrap(domain.ErrStateInconsistency, "invalid key status transition")

// statusTable lists the legal key status edges.
type statusTable map[domain.KeyStatus]map[domain.KeyStatus]bool

var transitions = newStatusTable()

func newStatusTable() statusTable {
	t := statusTable{}
	all := []domain.KeyStatus{
		domain.StatusIdle,
		domain.StatusGenerating,
		domain.StatusReady,
		domain.StatusUnavailable,
		domain.StatusError,
	}
	for _, from := range all {
		t.add(from, domain.StatusIdle, domain.StatusGenerating, domain.StatusUnavailable, domain.StatusError)
	}
	// A key is only installed at the end of a traversal.
	t.add(domain.StatusGenerating, domain.StatusReady)
	return t
}

func (t statusTable) add(from domain.KeyStatus, to ...domain.KeyStatus) {
	if t[from] == nil {
		t[from] = map[domain.KeyStatus]bool{}
	}
	for _, s := range to {
		t[from][s] = true
	}
}

func (t statusTable) allowed(from, to domain.KeyStatus) bool {
	return t[from][to]
}

// CanTransition reports whether the session may move from one status to another.
func CanTransition(from, to domain.KeyStatus) bool {
	return transitions.allowed(from, to)
}
