// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import "context"

// # Action Log Data Access

// Store defines the data access contract for the action log.
type Store interface {

	/*
		Insert appends one entry to the log.

		Parameters:
		  - context: context.Context
		  - entry: *Entry (ID and CreatedAt already set)

		Returns:
		  - error: Persistence failures
	*/
	Insert(context context.Context, entry *Entry) error

	/*
		List returns a page of entries, newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Entry: The requested page
		  - int: Total number of entries
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Entry, int, error)
}
