package commands

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"ringchat/internal/app"
	"ringchat/internal/tui"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Connect to the relay and open the chat screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context())
		},
	}
}

func runChat(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.ConfigFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	jww.INFO.Printf("ringchat starting, relay %s", cfg.RelayURL)
	a.Start(ctx)

	p := tea.NewProgram(tui.New(ctx, a.Wire.Session), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if closeErr := a.Close(); closeErr != nil {
		jww.ERROR.Printf("shutdown: %v", closeErr)
		if runErr == nil {
			runErr = closeErr
		}
	}
	if errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return runErr
}
