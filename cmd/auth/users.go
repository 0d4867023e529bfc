package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/noteful/internal/auth/app"
	"github.com/aussiebroadwan/noteful/internal/auth/service"
)

// NewHashPasswordCmd creates the hash-password subcommand. It prints the
// digest of a password read from stdin, for seeding accounts by hand.
func NewHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			hasher, err := app.NewHasher(cfg)
			if err != nil {
				return oops.Code("HASHER_INIT_FAILED").Wrap(err)
			}
			digest, err := hasher.Hash(cmd.Context(), password)
			if err != nil {
				return oops.Code("HASH_FAILED").Wrap(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
}

// NewUserAddCmd creates the useradd subcommand.
func NewUserAddCmd() *cobra.Command {
	var username, fullname string

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create a user; the password is read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return oops.Code("CONFIG_INVALID").Wrap(err)
			}

			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := app.OpenStore(ctx, cfg, cliLogger(cfg))
			if err != nil {
				return oops.Code("DB_CONNECT_FAILED").Wrap(err)
			}
			defer db.Close()

			hasher, err := app.NewHasher(cfg)
			if err != nil {
				return oops.Code("HASHER_INIT_FAILED").Wrap(err)
			}

			users := &service.UserService{Store: db, Hasher: hasher}
			user, err := users.CreateUser(ctx, service.NewUser{
				Username: username,
				Password: password,
				Fullname: fullname,
			})
			if err != nil {
				return oops.Code("USER_CREATE_FAILED").With("username", username).Wrap(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&fullname, "fullname", "", "display name")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// readPassword takes the first line of r, without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("STDIN_READ_FAILED").Wrap(err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", oops.Code("PASSWORD_MISSING").Errorf("no password on stdin")
	}
	return password, nil
}
