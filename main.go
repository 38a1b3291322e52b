// mentorae - A terminal client for the Mentorae AI tutoring service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mentorae/tutor-tui/internal/cli"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Commands that need no server or session wiring
	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	switch cmd {
	case cli.CmdTUI:
		err = cli.HandleTUI(ctx, app, args)
	case cli.CmdAsk:
		err = cli.HandleAsk(ctx, app, args)
	case cli.CmdRepl:
		err = cli.HandleRepl(ctx, app, args)
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, app, args)
	case cli.CmdSignup:
		err = cli.HandleSignup(ctx, app, args)
	case cli.CmdLogout:
		err = cli.HandleLogout(ctx, app, args)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, app, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(app, args)
	default:
		err = cli.HandleTUI(ctx, app, args)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
}
