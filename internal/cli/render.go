// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/taibuivan/bookdesk/internal/audit"
	"github.com/taibuivan/bookdesk/internal/catalog"
	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/core/rating"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// render writes payload as indented JSON, or calls table for the table format.
func render(w io.Writer, format string, payload any, table func(io.Writer)) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case "table", "":
		table(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeSearchHeading names what was searched, e.g. "Author's Name: Rowling".
func writeSearchHeading(w io.Writer, mode book.Mode, term string) {
	if mode == book.ModeAll || term == "" {
		fmt.Fprintf(w, "%s\n\n", mode.Label())
		return
	}
	fmt.Fprintf(w, "%s: %s\n\n", mode.Label(), term)
}

func writeSummaries(w io.Writer, summaries []book.Summary) {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No books found")
		return
	}

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "ISBN\tTITLE\tAUTHORS\tYEAR\tRATING\tVOTES")
	for _, s := range summaries {
		year := "-"
		if s.PublicationYear != nil {
			year = strconv.Itoa(*s.PublicationYear)
		}
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%.2f\t%d\n", s.ISBN, s.Title, s.Authors, year, s.Rating.Average, s.Rating.Count)
	}
	_ = table.Flush()
}

func writePageFooter(w io.Writer, meta pagination.Meta) {
	fmt.Fprintf(w, "\nShowing %d-%d of %d", meta.Offset+1, meta.Offset+meta.Limit, meta.TotalRecords)
	if meta.HasNext && meta.NextOffset != nil {
		fmt.Fprintf(w, " (next: --offset %d)", *meta.NextOffset)
	}
	fmt.Fprintln(w)
}

func writeVote(w io.Writer, vote *catalog.Vote) {
	state := "confirmed by the backend"
	if !vote.Confirmed {
		state = "not confirmed; showing the local tally"
	}
	fmt.Fprintf(w, "Voted %d star(s) for %s, %s\n", vote.Star, vote.ISBN, state)

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for star := rating.MaxStar; star >= rating.MinStar; star-- {
		fmt.Fprintf(table, "%d★\t%d\n", star, vote.Ratings.Bucket(star))
	}
	fmt.Fprintf(table, "avg\t%.2f (%d votes)\n", vote.Ratings.Average, vote.Ratings.Count)
	_ = table.Flush()
}

func writeAudit(w io.Writer, entries []audit.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries")
		return
	}

	table := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "WHEN\tWHO\tACTION\tTARGET\tOUTCOME")
	for _, e := range entries {
		target := e.ISBN
		if target == "" && e.Mode != "" {
			target = e.Mode + "=" + e.Term
		}
		fmt.Fprintf(table, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Username, e.Action, target, e.Outcome)
	}
	_ = table.Flush()
}
