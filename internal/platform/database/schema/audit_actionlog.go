// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used in hand-written SQL.
package schema

// AuditActionLogTable represents the 'audit.actionlog' table
type AuditActionLogTable struct {
	Table     string
	ID        string
	Action    string
	ISBN      string
	Mode      string
	Term      string
	Username  string
	Before    string
	After     string
	Outcome   string
	Error     string
	RequestID string
	CreatedAt string
}

var AuditActionLog = AuditActionLogTable{
	Table:     "audit.actionlog",
	ID:        "id",
	Action:    "action",
	ISBN:      "isbn",
	Mode:      "mode",
	Term:      "term",
	Username:  "username",
	Before:    "before",
	After:     "after",
	Outcome:   "outcome",
	Error:     "error",
	RequestID: "requestid",
	CreatedAt: "createdat",
}
