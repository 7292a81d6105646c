/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package config registers the CLI surface of spec §6 on a spf13/cobra
// root command, layers flag values through spf13/viper (so every flag is
// also settable by environment variable), and validates the result into a
// Conf ready for cmd/lachesis to build the scan pipeline from.
package config

import (
	"fmt"
	"strings"
	"time"

	spfcbr "github.com/spf13/cobra"
	"github.com/spf13/pflag"
	spfvpr "github.com/spf13/viper"

	liberr "github.com/sabouaram/lachesis/errors"
)

const envPrefix = "LACHESIS"

// Conf is the fully-resolved, validated run configuration: the CLI
// surface of spec §6 plus the --log-file and --web-ui-addr flags.
type Conf struct {
	Dataset                string
	Subnets                []string
	DefIDs                 []string
	ExcludeDefIDs          []string
	MaxTargets             uint64
	ReqTimeout             time.Duration
	MaxConcurrentRequests  uint64
	UserAgent              string
	Debug                  bool
	LogFile                string
	WebUI                  bool
	WebUIAddr              string
}

// Register binds spec §6's flags onto cmd and layers them through viper
// under the LACHESIS_ environment prefix. Call Resolve(cmd) from the
// command's RunE to read back the bound values into a Conf.
func Register(cmd *spfcbr.Command) {
	flags := cmd.Flags()

	flags.String("dataset", "", "path to a DNS dataset file (mutually exclusive with --subnet)")
	flags.StringArray("subnet", nil, "IPv4 CIDR to scan sequentially (repeatable, mutually exclusive with --dataset)")
	flags.StringArray("def", nil, "definition id or path to load (repeatable)")
	flags.StringArray("exclude-def", nil, "definition id to exclude from --def (repeatable)")
	flags.Uint64("max-targets", 0, "maximum number of targets to consume (0 = unbounded)")
	flags.Int("req-timeout", 10, "per-request timeout in seconds")
	flags.Uint64("max-concurrent-requests", 500, "maximum number of in-flight probes")
	flags.String("user-agent", "lachesis/1.0", "User-Agent sent with every HTTP/S probe")
	flags.Bool("debug", false, "log per-probe Fail/Timeout events")
	flags.String("log-file", "", "also write logs to this file, in addition to stderr/stdout (created if missing)")
	flags.Bool("web-ui", false, "start the read-only web UI instead of scanning")
	flags.String("web-ui-addr", "127.0.0.1:8080", "address the web UI listens on")

	v := spfvpr.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	cmd.PreRunE = func(*spfcbr.Command, []string) error {
		var err error
		flags.VisitAll(func(f *pflag.Flag) {
			if err == nil && !f.Changed && v.IsSet(f.Name) {
				err = flags.Set(f.Name, v.GetString(f.Name))
			}
		})
		return err
	}
}

// Resolve reads cmd's bound flags (layered through viper in Register) into
// a Conf and validates spec §6's invariants: dataset/subnet are mutually
// exclusive and at least one is required.
func Resolve(cmd *spfcbr.Command) (*Conf, liberr.Error) {
	flags := cmd.Flags()

	dataset, err := flags.GetString("dataset")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	subnets, err := flags.GetStringArray("subnet")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	defs, err := flags.GetStringArray("def")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	excludeDefs, err := flags.GetStringArray("exclude-def")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	maxTargets, err := flags.GetUint64("max-targets")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	reqTimeout, err := flags.GetInt("req-timeout")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	maxConcurrent, err := flags.GetUint64("max-concurrent-requests")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	userAgent, err := flags.GetString("user-agent")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	debug, err := flags.GetBool("debug")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	logFile, err := flags.GetString("log-file")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	webUI, err := flags.GetBool("web-ui")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}
	webUIAddr, err := flags.GetString("web-ui-addr")
	if err != nil {
		return nil, ErrorFlagBind.Error(err)
	}

	c := &Conf{
		Dataset:               dataset,
		Subnets:               subnets,
		DefIDs:                defs,
		ExcludeDefIDs:         excludeDefs,
		MaxTargets:            maxTargets,
		ReqTimeout:            time.Duration(reqTimeout) * time.Second,
		MaxConcurrentRequests: maxConcurrent,
		UserAgent:             userAgent,
		Debug:                 debug,
		LogFile:               logFile,
		WebUI:                 webUI,
		WebUIAddr:             webUIAddr,
	}

	if !webUI {
		if c.Dataset != "" && len(c.Subnets) > 0 {
			return nil, ErrorParamEmpty.Error(fmt.Errorf("--dataset and --subnet are mutually exclusive"))
		}
		if c.Dataset == "" && len(c.Subnets) == 0 {
			return nil, ErrorDatasetMissing.Error(nil)
		}
	}

	return c, nil
}
