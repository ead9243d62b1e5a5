// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements bookctl, the command-line admin client for the
bookdesk gateway.

Flags fall back to BOOKDESK_* environment variables. A successful login is
remembered in a YAML credentials file so later commands run signed in.
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookdesk/internal/core/book"
	"github.com/taibuivan/bookdesk/internal/users/auth"
	"github.com/taibuivan/bookdesk/pkg/pagination"
)

// Environment fallbacks for the global flags.
const (
	EnvGateway     = "BOOKDESK_GATEWAY"
	EnvCredentials = "BOOKDESK_CREDENTIALS"
	EnvPassword    = "BOOKDESK_PASSWORD"

	defaultGateway = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
)

// options are the global flags shared by every command.
type options struct {
	gateway     string
	credentials string
	output      string
	timeout     time.Duration

	now func() time.Time
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// NewRootCommand builds the bookctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{now: time.Now}

	cmd := &cobra.Command{
		Use:           "bookctl",
		Short:         "Administer the book catalog through the bookdesk gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.gateway, "gateway", envOr(EnvGateway, defaultGateway), "Gateway base URL ($"+EnvGateway+")")
	flags.StringVar(&opts.credentials, "credentials", envOr(EnvCredentials, DefaultCredentialsPath()), "Credentials file ($"+EnvCredentials+")")
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Request timeout")

	cmd.AddCommand(
		loginCommand(opts),
		registerCommand(opts),
		logoutCommand(opts),
		whoamiCommand(opts),
		changePasswordCommand(opts),
		booksCommand(opts),
		auditCommand(opts),
	)
	return cmd
}

// client returns a gateway client carrying the stored session, if it is still valid.
func (opts *options) client() (*Gateway, *Credentials, error) {
	credentials, err := LoadCredentials(opts.credentials)
	if err != nil {
		return nil, nil, err
	}

	token := ""
	if credentials.Valid(opts.now()) && (credentials.Gateway == "" || credentials.Gateway == opts.gateway) {
		token = credentials.Token
	}
	return NewGateway(opts.gateway, token, opts.timeout), credentials, nil
}

func (opts *options) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), opts.timeout)
}

func (opts *options) remember(issued *auth.Issued) error {
	return SaveCredentials(opts.credentials, &Credentials{
		Gateway:   opts.gateway,
		Username:  issued.Username,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	})
}

// # Accounts

func loginCommand(opts *options) *cobra.Command {
	var input auth.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(EnvPassword)
			}

			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			issued, err := gateway.Login(ctx, input)
			if err != nil {
				return err
			}
			if err := opts.remember(issued); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s until %s\n", issued.Username, issued.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Username, "username", "u", "", "Account name")
	cmd.Flags().StringVarP(&input.Password, "password", "p", "", "Password ($"+EnvPassword+")")
	return cmd
}

func registerCommand(opts *options) *cobra.Command {
	var input auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(EnvPassword)
			}

			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			issued, err := gateway.Register(ctx, input)
			if err != nil {
				return err
			}
			if err := opts.remember(issued); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", issued.Username)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&input.FirstName, "firstname", "", "First name")
	flags.StringVar(&input.LastName, "lastname", "", "Last name")
	flags.StringVar(&input.Email, "email", "", "Email address")
	flags.StringVar(&input.Phone, "phone", "", "Phone number")
	flags.StringVarP(&input.Username, "username", "u", "", "Account name")
	flags.StringVarP(&input.Password, "password", "p", "", "Password ($"+EnvPassword+")")
	return cmd
}

func logoutCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the remembered session",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, credentials, err := opts.client()
			if err != nil {
				return err
			}
			if credentials.Valid(opts.now()) {
				ctx, cancel := opts.requestContext(cmd)
				defer cancel()
				// The local file is cleared even when the gateway already forgot the session.
				_ = gateway.Logout(ctx)
			}
			if err := ClearCredentials(opts.credentials); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Describe the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			profile, err := gateway.Me(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, profile, func(w io.Writer) {
				fmt.Fprintf(w, "%s (session %s, expires %s)\n", profile.Username, profile.SessionID, profile.ExpiresAt.Local().Format(time.RFC1123))
			})
		},
	}
}

func changePasswordCommand(opts *options) *cobra.Command {
	var input auth.ChangePasswordInput

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Replace an account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			message, err := gateway.ChangePassword(ctx, input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&input.Username, "username", "u", "", "Account name (ignored when signed in)")
	flags.StringVar(&input.OldPassword, "old", "", "Current password")
	flags.StringVar(&input.NewPassword, "new", "", "New password")
	flags.StringVar(&input.ConfirmPassword, "confirm", "", "New password again")
	return cmd
}

// # Books

func booksCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Look up and manage books",
	}
	cmd.AddCommand(
		bookGetCommand(opts),
		bookSearchCommand(opts),
		bookListCommand(opts),
		bookCreateCommand(opts),
		bookDeleteCommand(opts),
		bookRateCommand(opts),
	)
	return cmd
}

func bookGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get ISBN",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			found, err := gateway.Book(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, found, func(w io.Writer) {
				writeSummaries(w, []book.Summary{book.Summarize(*found)})
			})
		},
	}
}

func bookSearchCommand(opts *options) *cobra.Command {
	var (
		mode   string
		term   string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search by isbn, author, title or rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := book.ParseMode(mode)
			if !ok {
				return fmt.Errorf("unknown mode %q", mode)
			}
			return runSearch(cmd, opts, parsed, term, limit, offset)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&mode, "mode", "m", string(book.ModeTitle), "Search mode (isbn, author, title, rating, all)")
	flags.StringVarP(&term, "term", "t", "", "Search term")
	flags.IntVar(&limit, "limit", pagination.DefaultLimit, "Page size (mode all)")
	flags.IntVar(&offset, "offset", 0, "Page start (mode all)")
	return cmd
}

func bookListCommand(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Page through the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, book.ModeAll, "", limit, offset)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", pagination.DefaultLimit, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page start")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *options, mode book.Mode, term string, limit, offset int) error {
	gateway, _, err := opts.client()
	if err != nil {
		return err
	}
	ctx, cancel := opts.requestContext(cmd)
	defer cancel()

	cursor := pagination.New(limit)
	cursor.Offset = max(0, offset)

	results, meta, err := gateway.Search(ctx, mode, term, cursor)
	if err != nil {
		return err
	}

	payload := map[string]any{"results": results, "meta": meta}
	return render(cmd.OutOrStdout(), opts.output, payload, func(w io.Writer) {
		writeSearchHeading(w, mode, term)
		writeSummaries(w, results)
		writePageFooter(w, meta)
	})
}

func bookCreateCommand(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a book from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := LoadEntry(file)
			if err != nil {
				return err
			}

			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			created, err := gateway.CreateBook(ctx, entry)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, created, func(w io.Writer) {
				fmt.Fprintf(w, "Created %s (%s)\n", created.Title, created.ISBN13)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Book entry file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func bookDeleteCommand(opts *options) *cobra.Command {
	var mode, term string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete books by isbn, author or title",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := book.ParseMode(mode)
			if !ok || !parsed.Deletable() {
				return fmt.Errorf("books can only be deleted by isbn, author or title, got %q", mode)
			}

			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			deleted, err := gateway.DeleteBooks(ctx, parsed, term)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, deleted, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d book(s)\n", len(deleted))
				writeSummaries(w, deleted)
			})
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(book.ModeISBN), "Delete mode (isbn, author, title)")
	cmd.Flags().StringVarP(&term, "term", "t", "", "Value to match")
	return cmd
}

func bookRateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rate ISBN STAR",
		Short: "Cast a 1-5 star vote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			star, err := starArg(args[1])
			if err != nil {
				return err
			}

			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			vote, err := gateway.Rate(ctx, args[0], star)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, vote, func(w io.Writer) {
				writeVote(w, vote)
			})
		},
	}
}

// # Audit

func auditCommand(opts *options) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the action log",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, _, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := opts.requestContext(cmd)
			defer cancel()

			cursor := pagination.New(limit)
			cursor.Offset = max(0, offset)

			entries, meta, err := gateway.Audit(ctx, cursor)
			if err != nil {
				return err
			}
			payload := map[string]any{"entries": entries, "meta": meta}
			return render(cmd.OutOrStdout(), opts.output, payload, func(w io.Writer) {
				writeAudit(w, entries)
				writePageFooter(w, meta)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", pagination.DefaultLimit, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page start")
	return cmd
}
