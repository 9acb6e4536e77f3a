// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gaslink/gaslink/builtin"
	"github.com/gaslink/gaslink/genesis"
	"github.com/gaslink/gaslink/log"
	"github.com/gaslink/gaslink/logdb"
	"github.com/gaslink/gaslink/lvldb"
	"github.com/gaslink/gaslink/state"
)

func fatal(args ...interface{}) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	lvl := new(slog.LevelVar)
	switch ctx.Int(verbosityFlag.Name) {
	case 0:
		lvl.Set(slog.LevelError + 4) // silent
	case 1:
		lvl.Set(slog.LevelError)
	case 2:
		lvl.Set(slog.LevelWarn)
	case 3:
		lvl.Set(slog.LevelInfo)
	default:
		lvl.Set(slog.LevelDebug)
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewTerminalHandler(os.Stderr, lvl, useColor))
}

func makeDataDir(ctx *cli.Context) string {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dir, err))
	}
	return dir
}

func openMainDB(dataDir string) *lvldb.LevelDB {
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func openLogDB(dataDir string) *logdb.LogDB {
	path := filepath.Join(dataDir, "events.db")
	db, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

// seedGenesis builds the genesis state if the contract has not been
// initialized yet, and returns the admin address for the startup
// message.
func seedGenesis(ctx *cli.Context, st *state.State) string {
	token := builtin.NewCapacityToken(st, nil)
	admin, err := token.Admin()
	if err != nil {
		fatal("read contract admin:", err)
	}
	if !admin.IsZero() {
		return admin.String()
	}

	cfg := genesis.DevConfig()
	if path := ctx.String(genesisFlag.Name); path != "" {
		if cfg, err = genesis.LoadConfig(path); err != nil {
			fatal("load genesis config:", err)
		}
	}
	if err := genesis.Build(st, cfg); err != nil {
		fatal("build genesis state:", err)
	}
	return cfg.Admin
}

func newHTTPServer(addr string, handler http.Handler) (*http.Server, net.Listener, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, "", fmt.Errorf("listen on %v: %w", addr, err)
	}
	srv := &http.Server{Handler: handler}
	return srv, listener, "http://" + listener.Addr().String(), nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
