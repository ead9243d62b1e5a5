// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit keeps the gateway's action log: every catalog mutation and
account change made through bookdesk, with the state before and after.

The log is write-mostly. A failure to record never fails the admin operation
that triggered it; it is logged and dropped.
*/
package audit

import (
	"encoding/json"
	"time"
)

// # Domain Entities

// Action names what an admin did.
type Action string

const (
	ActionCreateBook     Action = "create_book"
	ActionDeleteBooks    Action = "delete_books"
	ActionRateBook       Action = "rate_book"
	ActionLogin          Action = "login"
	ActionRegister       Action = "register"
	ActionLogout         Action = "logout"
	ActionChangePassword Action = "change_password"
)

// Outcome is how the action ended.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"

	// OutcomeUnconfirmed means the backend accepted a write but the follow-up read failed.
	OutcomeUnconfirmed Outcome = "unconfirmed"
)

// Entry is one row of the action log.
type Entry struct {
	ID        string          `json:"id"`
	Action    Action          `json:"action"`
	ISBN      string          `json:"isbn,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Term      string          `json:"term,omitempty"`
	Username  string          `json:"username"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Outcome   Outcome         `json:"outcome"`
	Error     string          `json:"error,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot encodes v for the Before/After columns. Unencodable values become nil.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return encoded
}

// OutcomeOf maps an operation error to an outcome.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeOK
}
