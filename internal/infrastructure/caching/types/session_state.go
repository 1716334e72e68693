// Package types defines cache state structures for the engage engine
package types

import (
	"sync"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
)

// SessionState is the in-memory authority for one session's engagement
// state. It is created on the session's first request, hydrated from durable
// storage, and remains authoritative even when persistence writes fail.
type SessionState struct {
	SessionID  string
	Tracker    *engagement.Tracker
	IsAdmin    bool
	CreatedAt  time.Time
	LastActive time.Time

	hydrateOnce sync.Once
}

// HydrateOnce runs fn exactly once for the session's lifetime. Every caller
// blocks until the first invocation returns, so concurrent first requests for
// a session cannot mutate or persist the tracker before its persisted
// documents are merged in.
func (s *SessionState) HydrateOnce(fn func()) {
	s.hydrateOnce.Do(fn)
}

// SessionSummary is the read-only projection served to the operator surface.
type SessionSummary struct {
	SessionID     string                             `json:"sessionId"`
	Counts        map[engagement.InteractionType]int `json:"counts"`
	ShownSections []string                           `json:"shownSections"`
	IsAdmin       bool                               `json:"isAdmin"`
	CreatedAt     time.Time                          `json:"createdAt"`
	LastActive    time.Time                          `json:"lastActive"`
}
