// Command ctrlmux attaches to a tmux-style control-mode session and mirrors
// its panes locally.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ehrlich-b/ctrlmux/internal/clog"
	"github.com/ehrlich-b/ctrlmux/internal/config"
	"github.com/ehrlich-b/ctrlmux/internal/muxmodel"
	"github.com/ehrlich-b/ctrlmux/internal/muxproto"
	"github.com/ehrlich-b/ctrlmux/internal/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ctrlmux:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ctrlmux",
		Short: "attach to a control-mode multiplexer session",
	}
	root.AddCommand(newAttachCmd())
	root.AddCommand(newConfigCmd())
	return root
}

func newAttachCmd() *cobra.Command {
	var wsURL string
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "attach to a session over the configured transport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAttach(cmd.Context(), wsURL)
		},
	}
	cmd.Flags().StringVar(&wsURL, "ws-url", "", "connect over websocket instead of spawning a local process")
	return cmd
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Short: "inspect the attach profile"}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.GetUserConfigDir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			fmt.Printf("target:               %s\n", cfg.Target)
			fmt.Printf("transport:            %s\n", cfg.Transport)
			fmt.Printf("command:              %s\n", strings.Join(cfg.Command, " "))
			fmt.Printf("size:                 %dx%d\n", cfg.Cols, cfg.Rows)
			fmt.Printf("history-limit-ceiling: %d\n", cfg.HistoryLimitCeiling)
			fmt.Printf("log-level:            %s\n", cfg.LogLevel)
			return nil
		},
	})
	return configCmd
}

func runAttach(ctx context.Context, wsURL string) error {
	dir, err := config.GetUserConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := config.EnsureUserConfigDir(dir); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := clog.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := clog.For("cmd/ctrlmux")

	cols, rows := cfg.Cols, cfg.Rows
	fd := int(os.Stdin.Fd())
	if isatty.IsTerminal(uintptr(fd)) {
		if w, h, err := term.GetSize(fd); err == nil {
			cols, rows = w, h
		}
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enter raw mode: %w", err)
		}
		defer term.Restore(fd, oldState)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var tport muxproto.Transport
	var onLine *func([]byte)
	switch {
	case wsURL != "":
		token, terr := cfg.ResolveToken()
		if terr != nil {
			return fmt.Errorf("resolve bearer token: %w", terr)
		}
		ws, derr := transport.DialWebSocket(ctx, wsURL, token, log)
		if derr != nil {
			return derr
		}
		tport = ws
		onLine = &ws.OnLine
	default:
		proc, serr := transport.StartProcess(ctx, cfg.Command, cols, rows, log)
		if serr != nil {
			return serr
		}
		tport = proc
		onLine = &proc.OnLine
	}

	factory := muxmodel.NewFactory(cfg.HistoryLimitCeiling)
	remote := muxproto.NewRemote(tport, factory, cfg.HistoryLimitCeiling, clog.For("muxproto"), nil)
	*onLine = func(line []byte) {
		remote.Feed(append(append([]byte(nil), line...), '\n'))
	}

	<-ctx.Done()
	return tport.Close()
}
