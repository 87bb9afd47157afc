package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"traveleo/internal/cli"
	"traveleo/internal/core"
	"traveleo/internal/services"
	"traveleo/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			dsn, err := storage.DSN(cli.StoreOptions(a.cfg))
			if err != nil {
				return err
			}
			version, dirty, err := storage.MigrationVersion(a.cfg.DBDriver, dsn)
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database %s at schema version %d", a.cfg.DBDriver, version)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newAddUserCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user with the default categories",
		Long: `Create a user with the default categories.

The password is prompted for when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.authService().Signup(a.withLogger(cmd.Context()), core.Signup{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s created successfully with ID %d\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (optional, will prompt if omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			users, err := a.authService().ListUsers(a.withLogger(cmd.Context()))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.CreatedAt.UTC().Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

func newRemindCmd() *cobra.Command {
	var within int

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Mail owners of trips starting soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			sent, err := services.NewReminderService(a.store, a.notifier).SendUpcoming(a.withLogger(cmd.Context()), within)
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d trip reminder(s)\n", sent)
			if err != nil {
				return userError(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&within, "within", 3, "days ahead to look for trip start dates")
	return cmd
}

// userError replaces a classified error with its client-facing message.
func userError(err error) error {
	if core.KindOf(err) == core.KindInternal {
		return err
	}
	return errors.New(core.MessageOf(err))
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// non-terminal input, e.g. pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
