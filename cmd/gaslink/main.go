// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gaslink/gaslink/api"
	"github.com/gaslink/gaslink/log"
	"github.com/gaslink/gaslink/metrics"
	"github.com/gaslink/gaslink/runtime"
	"github.com/gaslink/gaslink/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "gaslink",
		Usage:     "Gaslink pipeline capacity token service",
		Copyright: "2026 The Gaslink developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			verbosityFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAPILogsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	dataDir := makeDataDir(ctx)

	mainDB := openMainDB(dataDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(dataDir)
	defer func() { logger.Info("closing event database..."); logDB.Close() }()

	st := state.New(mainDB)
	admin := seedGenesis(ctx, st)

	rt := runtime.New(st, logDB, runtime.SystemClock{})

	handler := api.New(rt, logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
	})
	apiSrv, apiListener, apiURL, err := newHTTPServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	var (
		metricsSrv      *http.Server
		metricsListener net.Listener
		metricsURL      string
	)
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, metricsListener, metricsURL, err = newHTTPServer(ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
	}

	printStartupMessage(dataDir, admin, apiURL, metricsURL)

	exitCtx := handleExitSignal()
	var group errgroup.Group
	group.Go(func() error {
		if err := apiSrv.Serve(apiListener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	if metricsSrv != nil {
		group.Go(func() error {
			if err := metricsSrv.Serve(metricsListener); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-exitCtx.Done()
		logger.Info("stopping API server...")
		if err := apiSrv.Shutdown(context.Background()); err != nil {
			return err
		}
		if metricsSrv != nil {
			logger.Info("stopping metrics server...")
			return metricsSrv.Shutdown(context.Background())
		}
		return nil
	})
	return group.Wait()
}

func printStartupMessage(dataDir, admin, apiURL, metricsURL string) {
	fmt.Printf(`Starting %v
    Version     %v
    Data dir    %v
    Admin       %v
    API portal  %v
`, "Gaslink", fullVersion(), dataDir, admin, apiURL)
	if metricsURL != "" {
		fmt.Printf("    Metrics     %v\n", metricsURL)
	}
}
