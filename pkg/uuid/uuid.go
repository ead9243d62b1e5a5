// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for bookdesk.

It wraps the standard UUID library to generate Version 7 values for request
IDs, search view IDs, and audit log rows.

Advantages:
  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Friendly: Audit rows are appended in key order (B-tree optimal).
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	// entropy failure is an unrecoverable system-level error
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Parse reports whether s is a well-formed UUID and returns its canonical form.
func Parse(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
