// Command console is the Hoststack terminal client: sign in to the
// platform, inspect the current session, and follow the notification
// feed that backs the dashboard bell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hoststack/console/internal/core/domain"
	"github.com/hoststack/console/internal/core/ports"
	"github.com/hoststack/console/internal/core/service"
	"github.com/hoststack/console/internal/infrastructure/config"
	"github.com/hoststack/console/internal/infrastructure/rest"
	"github.com/hoststack/console/internal/infrastructure/store"
	"github.com/hoststack/console/pkg/logger"
)

var (
	flagAdmin   bool
	flagVerbose bool

	app *console
)

// console bundles the wired client for command handlers.
type console struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    ports.TokenStore
	rest     *rest.Client
	identity ports.IdentityAPI
	sessions *service.SessionManager
	guard    *service.RouteGuard
}

// scope returns the principal type selected by the --admin flag.
func scope() domain.Scope {
	if flagAdmin {
		return domain.ScopeAdmin
	}
	return domain.ScopeUser
}

var rootCmd = &cobra.Command{
	Use:           "console",
	Short:         "Hoststack platform console",
	Long:          "console is the terminal client for the Hoststack hosting platform:\nVPS, managed hosting, managed databases and n8n automation.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}

		level := cfg.LogLevel
		if flagVerbose {
			level = "debug"
		}
		log := logger.Init(logger.Options{Level: level})

		tokens, err := buildTokenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		client := rest.NewClient(cfg.APIURL, cfg.RequestTimeout, log)
		identity := rest.NewIdentityClient(client)
		sessions := service.NewSessionManager(scope(), tokens, identity, cfg.ResolveTimeout, log)

		app = &console{
			cfg:      cfg,
			log:      log,
			store:    tokens,
			rest:     client,
			identity: identity,
			sessions: sessions,
			guard:    service.NewRouteGuard(sessions),
		}
		return nil
	},
}

// buildTokenStore picks Redis when configured, the credentials file
// otherwise.
func buildTokenStore(ctx context.Context, cfg *config.Config) (ports.TokenStore, error) {
	if cfg.Redis.Addr != "" {
		client, err := store.Connect(ctx, store.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client), nil
	}
	return store.NewFileStore(cfg.TokenPath)
}

// requireSession resolves the session and applies the route guard for
// the named view. It returns an error with sign-in instructions when
// the guard redirects.
func requireSession(ctx context.Context, route string) error {
	app.sessions.Resolve(ctx)

	outcome := app.guard.Decide(route)
	if outcome.Decision == service.GuardAllow {
		return nil
	}

	hint := "console login"
	if scope() == domain.ScopeAdmin {
		hint = "console --admin login"
	}
	return fmt.Errorf("not signed in (would redirect to %s) — run `%s` first", outcome.Location, hint)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVar(&flagAdmin, "admin", false, "operate on the admin session instead of the user session")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(loginCmd, registerCmd, verifyOTPCmd, resendOTPCmd, logoutCmd, whoamiCmd, statusCmd, notificationsCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
