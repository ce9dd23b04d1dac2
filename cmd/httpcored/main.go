/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command httpcored is a cobra-built CLI over a master/worker HTTP core,
// re-exec'd once per worker the same binary runs as, switching between the
// two roles on process.WorkerEnvVar.
package main

import (
	"context"
	"fmt"
	"os"

	libcbr "github/sabouaram/golib/cobra"
	"github/sabouaram/golib/logger"
	libver "github/sabouaram/golib/version"

	spfcbr "github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// appLogger wraps the logger this binary's cobra/process/reactor wiring
// shares, built once in main and threaded through explicitly rather than
// kept as a package-level global.
type appLogger struct {
	logger logger.Logger
}

func main() {
	if slot, isWorker, err := workerSlot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	} else if isWorker {
		runAsWorker(slot)
		return
	}

	runAsMaster()
}

var httpcoredVersion = libver.NewVersion(
	libver.License_MIT,
	"httpcored",
	"HTTP reverse-proxy core: master/worker supervisor, event reactor, request-body pipeline",
	"",
	"dev",
	"0.1.0",
	"Nicolas JUHEL",
	"HTTPCORED",
	struct{}{},
	0,
)

// cliFlags holds the five CLI flags this binary accepts: config path,
// prefix, inline directives, signal target, and test-config mode. Workers
// are re-exec'd with the master's own os.Args[1:] (process.Table.spawn
// appends nothing but HTTPCORED_WORKER to the environment), so both roles
// parse the same argv through the same flag definitions rather than the
// worker trusting environment variables the master never sets.
type cliFlags struct {
	cfgPath string
	prefix  string
	inline  string
	signal  string
	testCfg bool
}

func bindCliFlags(fs *pflag.FlagSet) *cliFlags {
	f := &cliFlags{}
	fs.StringVarP(&f.cfgPath, "config", "c", "", "configuration file path")
	fs.StringVarP(&f.prefix, "prefix", "p", "", "prefix for relative paths (pidfile, temp files)")
	fs.StringVarP(&f.inline, "global", "g", "", "inline configuration directives, comma-separated key=value pairs")
	fs.StringVarP(&f.signal, "signal", "s", "", "send a signal to the running master: stop, quit, reopen, reload")
	fs.BoolVarP(&f.testCfg, "test", "t", false, "test the configuration and exit")
	return f
}

func runAsMaster() {
	app := libcbr.New()
	app.SetVersion(httpcoredVersion)
	app.SetFuncInit(func() {})
	app.Init()

	root := app.Cobra()
	flags := bindCliFlags(root.Flags())

	root.RunE = func(cmd *spfcbr.Command, args []string) error {
		cfg, err := loadConfig(flags.cfgPath, flags.prefix, flags.inline)
		if err != nil {
			return err
		}

		if flags.testCfg {
			fmt.Printf("configuration OK: %d worker(s), listening on %v\n", cfg.Workers, cfg.Listen)
			return nil
		}

		if flags.signal != "" {
			return sendSignal(cfg.PIDFile, flags.signal)
		}

		log := appLogger{logger: logger.New(context.Background())}
		return runMaster(cfg, log)
	}

	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func runAsWorker(slot int) {
	fs := pflag.NewFlagSet("httpcored", pflag.ContinueOnError)
	flags := bindCliFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := loadConfig(flags.cfgPath, flags.prefix, flags.inline)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := appLogger{logger: logger.New(context.Background())}
	if err := runWorker(cfg, log, slot); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
