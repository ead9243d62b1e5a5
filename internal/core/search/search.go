// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search holds the state of one admin search view and the single
function that moves it between states.

# Lifecycle

	Idle -> Loading -> {Loaded, Failed}

Loaded allows paging, which goes back to Loading. Failed allows a retry of the
same request. Changing the mode or term resets the cursor and starts a new
request.

# Fencing

Every transition into Loading bumps [State.Seq]. A fetch outcome carries the
Seq it was issued with and is dropped unless it matches the current one, so a
slow response can never overwrite a newer search.
*/
package search

import (
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/platform/apperr"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// # Types

// Status is the lifecycle position of a view.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Alert is the error banner shown after a failed request.
type Alert struct {
	Kind    apperr.Kind         `json:"kind"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// State is everything one view displays.
type State struct {
	Mode    book.Mode         `json:"mode"`
	Term    string            `json:"term"`
	Cursor  pagination.Cursor `json:"cursor"`
	Status  Status            `json:"status"`
	Results []book.Summary    `json:"results"`
	Alert   *Alert            `json:"alert,omitempty"`
	Seq     uint64            `json:"seq"`
}

// Request is the fetch a Loading state is waiting for.
type Request struct {
	Seq    uint64
	Mode   book.Mode
	Term   string
	Cursor pagination.Cursor
}

// New returns an idle view listing all books.
func New(limit int) State {
	return State{
		Mode:    book.ModeAll,
		Cursor:  pagination.New(limit),
		Status:  StatusIdle,
		Results: []book.Summary{},
	}
}

// Pending returns the request the state is waiting on, if any.
func (s State) Pending() (Request, bool) {
	if s.Status != StatusLoading {
		return Request{}, false
	}
	return Request{Seq: s.Seq, Mode: s.Mode, Term: s.Term, Cursor: s.Cursor}, true
}

// # Actions

// Action is an event applied to a [State] through [Reduce].
type Action interface {
	apply(State) State
}

// ChangeQuery starts a new search from the first page.
type ChangeQuery struct {
	Mode book.Mode
	Term string
}

// NextPage moves to the page the backend advertised.
type NextPage struct{}

// PrevPage moves one page back.
type PrevPage struct{}

// Retry reissues the failed request unchanged.
type Retry struct{}

// Succeeded delivers the outcome of the request tagged Seq.
type Succeeded struct {
	Seq     uint64
	Results []book.Summary
	Total   int
	Next    *int
}

// Failed delivers the error of the request tagged Seq.
type Failed struct {
	Seq uint64
	Err error
}

// DismissAlert clears the error banner.
type DismissAlert struct{}

// Reduce applies action to state and returns the new state. state is not modified.
func Reduce(state State, action Action) State {
	if action == nil {
		return state
	}
	return action.apply(state)
}

func (s State) load() State {
	s.Status = StatusLoading
	s.Seq++
	return s
}

func (a ChangeQuery) apply(s State) State {
	// Idle first: nothing from the previous search survives.
	s.Status = StatusIdle
	s.Mode = a.Mode
	s.Term = a.Term
	s.Cursor = s.Cursor.Reset(s.Cursor.Limit)
	s.Results = []book.Summary{}
	s.Alert = nil
	return s.load()
}

func (NextPage) apply(s State) State {
	if s.Status != StatusLoaded || !s.Cursor.CanForward() {
		return s
	}
	s.Cursor = s.Cursor.Forward()
	return s.load()
}

func (PrevPage) apply(s State) State {
	if s.Status != StatusLoaded || !s.Cursor.CanBackward() {
		return s
	}
	s.Cursor = s.Cursor.Backward()
	return s.load()
}

func (Retry) apply(s State) State {
	if s.Status != StatusFailed {
		return s
	}
	s.Alert = nil
	return s.load()
}

func (a Succeeded) apply(s State) State {
	if s.Status != StatusLoading || a.Seq != s.Seq {
		return s
	}
	s.Status = StatusLoaded
	s.Results = a.Results
	if s.Results == nil {
		s.Results = []book.Summary{}
	}
	s.Cursor = s.Cursor.ApplyServerResponse(a.Total, a.Next)
	s.Alert = nil
	return s
}

func (a Failed) apply(s State) State {
	if s.Status != StatusLoading || a.Seq != s.Seq {
		return s
	}
	s.Status = StatusFailed
	s.Alert = alertFor(a.Err)
	return s
}

func (DismissAlert) apply(s State) State {
	s.Alert = nil
	return s
}

func alertFor(err error) *Alert {
	if err == nil {
		return &Alert{Kind: apperr.KindInternal, Message: "Request failed"}
	}
	if ae := apperr.As(err); ae != nil {
		return &Alert{Kind: ae.Kind, Message: ae.Message, Details: ae.Details}
	}
	return &Alert{Kind: apperr.KindOf(err), Message: err.Error()}
}
