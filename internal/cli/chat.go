package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/soyeahso/arise/internal/domain"
	"github.com/soyeahso/arise/internal/session"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var oneShot string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadValidConfig()
			if err != nil {
				return err
			}
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := buildStack(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.close()

			if st.taskSink != nil {
				st.tracker.OnTransition(st.taskSink)
			}

			out := cmd.OutOrStdout()
			st.engine.OnTurn(func(turn domain.Turn) {
				printTurn(out, turn)
			})

			if oneShot != "" {
				return st.engine.Send(ctx, oneShot)
			}

			// Replay existing history so the user sees where they left off.
			for _, turn := range st.engine.History() {
				printTurn(out, turn)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "/quit" || line == "/exit" {
					return nil
				}
				if line == "/tasks" {
					for _, t := range st.tracker.List() {
						fmt.Fprintf(out, "  %-12s %-12s %s\n", t.Action, t.Status, t.ID)
					}
					continue
				}

				if err := st.engine.Send(ctx, line); err != nil {
					if errors.Is(err, session.ErrEmptyInput) {
						continue
					}
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
			}
		},
	}

	cmd.Flags().StringVar(&oneShot, "send", "", "send a single message and exit")

	return cmd
}

// printTurn renders one turn for the terminal. User turns are skipped;
// the user just typed them.
func printTurn(out io.Writer, turn domain.Turn) {
	switch turn.Role {
	case domain.RoleUser:
	case domain.RoleSystemIntent:
		fmt.Fprintf(out, "  .. %s\n", turn.Text)
	case domain.RoleError:
		fmt.Fprintf(out, "  !! %s\n", turn.Text)
	default:
		fmt.Fprintf(out, "%s\n", turn.Text)
	}
}
