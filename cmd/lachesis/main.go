/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

// Command lachesis is the internet-scale service fingerprinting engine's
// entrypoint: it parses the CLI surface, builds the target source,
// compiles the definition set, then wires the Worker Orchestrator to the
// Event Consumer until the run completes or is interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	spfcbr "github.com/spf13/cobra"

	"github.com/sabouaram/lachesis/config"
	"github.com/sabouaram/lachesis/database/gorm"
	"github.com/sabouaram/lachesis/httpcli"
	"github.com/sabouaram/lachesis/internal/consumer"
	"github.com/sabouaram/lachesis/internal/definition"
	"github.com/sabouaram/lachesis/internal/detect"
	"github.com/sabouaram/lachesis/internal/message"
	"github.com/sabouaram/lachesis/internal/metrics"
	"github.com/sabouaram/lachesis/internal/orchestrator"
	"github.com/sabouaram/lachesis/internal/sink"
	"github.com/sabouaram/lachesis/internal/stats"
	"github.com/sabouaram/lachesis/internal/target"
	"github.com/sabouaram/lachesis/internal/webui"
	liblog "github.com/sabouaram/lachesis/logger"
	logcfg "github.com/sabouaram/lachesis/logger/config"
	loglvl "github.com/sabouaram/lachesis/logger/level"
)

// slowQueryThreshold marks a GORM query as slow in the bridged logger;
// see database/gorm's RegisterLogger.
const slowQueryThreshold = 200 * time.Millisecond

// channel capacity between the orchestrator and the consumer; spec §4.7
// sizes this generously so a burst of probe completions never blocks a
// worker goroutine on a slow consumer.
const messageChanCapacity = 100000

func main() {
	root := &spfcbr.Command{
		Use:           "lachesis",
		Short:         "internet-scale service fingerprinting engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.Register(root)

	root.RunE = func(cmd *spfcbr.Command, _ []string) error {
		return run(cmd)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lachesis:", err)
		os.Exit(1)
	}
}

func run(cmd *spfcbr.Command) error {
	cfg, cerr := config.Resolve(cmd)
	if cerr != nil {
		return cerr
	}

	log := liblog.New(context.Background)
	if cfg.Debug {
		log.SetLevel(loglvl.DebugLevel)
	} else {
		log.SetLevel(loglvl.InfoLevel)
	}

	if err := log.SetOptions(buildLogOptions(cfg)); err != nil {
		return err
	}

	gcfg := &gorm.Config{Driver: gorm.DriverSQLite, DSN: "file:lachesis.db?cache=shared"}
	gcfg.RegisterLogger(func() liblog.Logger { return log }, true, slowQueryThreshold)

	db, derr := gorm.New(gcfg)
	if derr != nil {
		return derr
	}

	sk := sink.New(db)
	ctx, cancel := signalContext()
	defer cancel()

	if err := sk.Migrate(ctx); err != nil {
		return err
	}

	if cfg.WebUI {
		return runWebUI(ctx, cfg, sk)
	}

	return runScan(ctx, cfg, sk, log)
}

func runWebUI(ctx context.Context, cfg *config.Conf, sk sink.Sink) error {
	m := metrics.New(nil)
	srv := webui.New(sk, m)
	return webui.Run(ctx, cfg.WebUIAddr, srv)
}

func runScan(ctx context.Context, cfg *config.Conf, sk sink.Sink, log liblog.Logger) error {
	stats.Banner()

	defs, derr := loadDefinitions(cfg)
	if derr != nil {
		return derr
	}
	compiled, cerr := detect.CompileAll(defs)
	if cerr != nil {
		return cerr
	}

	source, serr := buildSource(cfg)
	if serr != nil {
		return serr
	}

	client := httpcli.BuildClient(httpcli.Config{ReqTimeout: cfg.ReqTimeout})
	out := make(chan message.WorkerMessage, messageChanCapacity)

	orch := orchestrator.New(orchestrator.Config{
		MaxTargets:            int(cfg.MaxTargets),
		MaxConcurrentRequests: int64(cfg.MaxConcurrentRequests),
		ReqTimeout:            cfg.ReqTimeout,
		UserAgent:             cfg.UserAgent,
	}, compiled, source, client, out)

	st := stats.New(int(cfg.MaxTargets))
	cons := consumer.New(out, sk, &logAdapter{log}, cfg.Debug, st)

	go orch.Run(ctx)

	err := cons.Run(ctx)
	st.Wait()

	if err != nil {
		return err
	}

	stats.AllConsumed()
	fmt.Println(st.Summary())
	return nil
}

func loadDefinitions(cfg *config.Conf) ([]*detect.Definition, error) {
	defs, err := definition.LoadSet(cfg.DefIDs, cfg.ExcludeDefIDs)
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func buildSource(cfg *config.Conf) (target.Source, error) {
	if cfg.Dataset != "" {
		return target.OpenDataset(cfg.Dataset)
	}
	if len(cfg.Subnets) > 0 {
		return target.OpenSubnets(cfg.Subnets)
	}
	return target.Empty(), nil
}

// buildLogOptions turns --debug/--log-file into the stdout/stderr split and
// optional file hook that liblog.SetOptions wires into logrus.
func buildLogOptions(cfg *config.Conf) *logcfg.Options {
	opt := &logcfg.Options{
		Stdout: &logcfg.OptionsStd{
			EnableTrace: cfg.Debug,
		},
	}

	if cfg.LogFile != "" {
		opt.LogFile = logcfg.OptionsFiles{
			{
				Filepath:    cfg.LogFile,
				Create:      true,
				CreatePath:  true,
				EnableTrace: cfg.Debug,
			},
		}
	}

	return opt
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// logAdapter narrows liblog.Logger down to the Debugf/Errorf surface
// internal/consumer depends on.
type logAdapter struct {
	log liblog.Logger
}

func (l *logAdapter) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...), nil)
}

func (l *logAdapter) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...), nil)
}
