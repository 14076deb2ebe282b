package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/classmeta/internal/api"
	"github.com/conduit-lang/classmeta/internal/store"
)

func newServeCommand(s *session) *cobra.Command {
	var tokenTTL time.Duration
	var issue string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the type universe over HTTP",
		Long: `Serve reflective queries over HTTP on server.host:server.port.

Reads are always open. When server.jwt_secret is set, POST /definitions and
PUT /types/{name} require an HS256 bearer token signed with that secret;
--issue prints such a token and exits. Uploaded definitions are put into
the store when one is configured.`,
		Example: `  classmeta serve -d definitions/
  CLASSMETA_SERVER_JWT_SECRET=s3cret classmeta serve --issue ci-bot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var auth *api.Authenticator
			if secret := s.cfg.Server.JWTSecret; secret != "" {
				auth = api.NewAuthenticator(secret, tokenTTL)
			}
			if issue != "" {
				if auth == nil {
					return errNoSecret
				}
				token, err := auth.GenerateToken(issue)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			backend, err := s.openStore(ctx)
			if err != nil {
				return err
			}
			opts := []api.Option{
				api.WithLogger(s.logger),
				api.WithTextConfig(s.cfg.BuilderConfig()),
			}
			var hooks []api.ShutdownHook
			var st store.Store
			if backend != nil {
				cached, err := store.NewCached(backend, s.cfg.Store.CacheSize)
				if err != nil {
					backend.Close()
					return err
				}
				st = cached
				opts = append(opts, api.WithStore(cached))
				hooks = append(hooks, func(context.Context) error { return cached.Close() })
			}
			if auth != nil {
				opts = append(opts, api.WithAuthenticator(auth))
			}

			m, err := s.load(ctx, st)
			if err != nil {
				if st != nil {
					st.Close()
				}
				return err
			}
			s.logger.Info("definitions ready",
				zap.Int("types", len(m.Types())),
				zap.Bool("auth", auth != nil),
				zap.Bool("store", st != nil))

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d types on http://%s\n", len(m.Types()), s.cfg.Address())
			return api.ListenAndServe(ctx, s.cfg.Address(), api.New(m, opts...), s.logger, hooks...)
		},
	}
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 24*time.Hour, "Lifetime of issued tokens")
	cmd.Flags().StringVar(&issue, "issue", "", "Print a token for this subject and exit")
	return cmd
}
