package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/soyeahso/arise/internal/config"
	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/gateway"
	"github.com/spf13/cobra"
)

func newGatewayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Manage the arise gateway server",
	}

	cmd.AddCommand(newGatewayRunCmd())
	return cmd
}

func newGatewayRunCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadValidConfig()
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			// Load raw config for RPC access
			raw, err := config.LoadRaw(paths.Config)
			if err != nil {
				raw = make(map[string]any)
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := buildStack(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()

			srv := gateway.New(cfg, log,
				gateway.WithConfigRaw(raw),
				gateway.WithSession(st.engine),
				gateway.WithTracker(st.tracker),
				gateway.WithTodos(st.todos),
			)

			// Persist task transitions and fan them out to clients.
			st.tracker.OnTransition(func(t domain.ActionTask) {
				if st.taskSink != nil {
					st.taskSink(t)
				}
				srv.BroadcastTask(t)
			})

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
