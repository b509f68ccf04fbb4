package cli

import (
	"fmt"
	"strings"

	"github.com/linemk/shop-admin/internal/forms"
	"github.com/linemk/shop-admin/internal/storage"
	"github.com/spf13/cobra"
)

func newLoginCmd(e *env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an admin account and store the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(e.out, "Password: ")
				line, _ := e.in.ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}

			form := forms.LoginForm{Email: email, Password: password}
			if err := form.Validate(); err != nil {
				return message(err)
			}

			session, err := e.auth.Login(cmd.Context(), storage.TokenKey, form.Email, form.Password)
			if err != nil {
				return message(err)
			}
			fmt.Fprintf(e.out, "Logged in as %s\n", session.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.auth.Logout(cmd.Context(), storage.TokenKey); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Logged out")
			return nil
		},
	}
}
