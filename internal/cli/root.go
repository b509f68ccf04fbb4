package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/linemk/shop-admin/internal/backend"
	"github.com/linemk/shop-admin/internal/forms"
	"github.com/linemk/shop-admin/internal/lib/logger"
	"github.com/linemk/shop-admin/internal/service"
	"github.com/linemk/shop-admin/internal/storage"
	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8000"

// Options - глобальные флаги adminctl
type Options struct {
	BaseURL   string
	TokenFile string
	Env       string
	Timeout   time.Duration
}

// env - всё, что нужно командам; собирается в PersistentPreRunE
type env struct {
	log      *slog.Logger
	auth     *service.AuthService
	orders   *service.OrderService
	products *service.ProductService
	settings *service.SettingsService
	in       *bufio.Reader
	out      io.Writer
}

// token возвращает сохранённый токен или подсказку выполнить login
func (e *env) token(ctx context.Context) (string, error) {
	tok, err := e.auth.Token(ctx, storage.TokenKey)
	if errors.Is(err, service.ErrNotAuthenticated) {
		return "", errors.New("not logged in, run `adminctl login` first")
	}
	return tok, err
}

// fail забывает токен, который backend больше не принимает, и переводит
// ошибку в сообщение для оператора
func (e *env) fail(ctx context.Context, err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		_ = e.auth.Logout(ctx, storage.TokenKey)
		return errors.New("session expired, run `adminctl login` again")
	}
	return message(err)
}

func message(err error) error {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message)
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return errors.New(apiErr.Message)
	}
	return err
}

// printOpener - в терминале «открыть» ссылку значит напечатать её
type printOpener struct {
	out io.Writer
}

func (p printOpener) Open(_ context.Context, _, link string) error {
	_, err := fmt.Fprintf(p.out, "Customer notification: %s\n", link)
	return err
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shop-admin", "token.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewRootCmd собирает дерево команд adminctl
func NewRootCmd() *cobra.Command {
	opts := &Options{}
	e := &env{}

	root := &cobra.Command{
		Use:   "adminctl",
		Short: "Manage shop orders and catalog from the terminal",
		Long: `adminctl talks to the shop backend with an admin account.

Log in once with "adminctl login"; the token is kept in a local file
and reused by every other command until it expires or is revoked.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e.out = cmd.OutOrStdout()
			e.in = bufio.NewReader(cmd.InOrStdin())
			e.log = logger.New(opts.Env, cmd.ErrOrStderr())

			client := backend.New(opts.BaseURL, &http.Client{Timeout: opts.Timeout}, e.log)
			e.auth = service.NewAuthService(e.log, client, storage.NewFileStorage(opts.TokenFile), 0)
			e.orders = service.NewOrderService(e.log, client, printOpener{out: e.out})
			e.products = service.NewProductService(e.log, client)
			e.settings = service.NewSettingsService(e.log, client)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.BaseURL, "api", envOr("API_BASE_URL", defaultBaseURL), "backend base URL")
	flags.StringVar(&opts.TokenFile, "token-file", envOr("ADMINCTL_TOKEN_FILE", defaultTokenFile()), "where the auth token is stored")
	flags.StringVar(&opts.Env, "env", envOr("ENV", "prod"), "log format: local, dev or prod")
	flags.DurationVar(&opts.Timeout, "timeout", 15*time.Second, "backend request timeout")

	root.AddCommand(
		newLoginCmd(e),
		newLogoutCmd(e),
		newOrdersCmd(e),
		newProductsCmd(e),
		newProfileCmd(e),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// confirm спрашивает y/N; всё, кроме y/yes, считается отказом
func (e *env) confirm(question string) bool {
	fmt.Fprintf(e.out, "%s [y/N]: ", question)
	answer, _ := e.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
