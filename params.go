package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
)

type commandParams struct {
	envFile    string
	uiURL      string
	apiURL     string
	env        string
	suites     string
	workers    int
	retries    int
	headless   bool
	browser    string
	reportPath string
	filters    framework.RegexFilters
	stub       bool
	noWait     bool
	debug      bool
	debugAll   bool

	// set tracks which flags were given, so that only those override the configuration.
	set map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "file of environment variables to load, if it exists")
	fs.StringVar(&c.uiURL, "ui-url", "", "base URL of the blog UI (overrides UI_BASE_URL)")
	fs.StringVar(&c.apiURL, "api-url", "", "base URL of the blog API (overrides API_BASE_URL)")
	fs.StringVar(&c.env, "env", "", "target environment: local, staging or production (overrides ENV)")
	fs.StringVar(&c.suites, "suites", "all", "which suites to run: api, ui or all")
	fs.IntVar(&c.workers, "workers", 0, "number of suites to run in parallel (overrides WORKERS)")
	fs.IntVar(&c.retries, "retries", 0, "extra attempts for a failed test (overrides RETRIES)")
	fs.BoolVar(&c.headless, "headless", false, "run the browser without a window (overrides HEADLESS)")
	fs.StringVar(&c.browser, "browser", "", "chromium, firefox or webkit (overrides BROWSER)")
	fs.StringVar(&c.reportPath, "report", "", "path of the YAML results report (default reports/<env>/results.yaml)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.stub, "stub", false, "run the API suites against an in-process stub of the blog API")
	fs.BoolVar(&c.noWait, "no-wait", false, "do not wait for the API and UI to be ready before running")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })
	return true
}

// Apply overrides the loaded configuration with the flags that were given on the command line.
func (c *commandParams) Apply(cfg config.Config) (config.Config, error) {
	if c.set["ui-url"] {
		cfg.UIBaseURL = c.uiURL
	}
	if c.set["api-url"] {
		cfg.APIBaseURL = c.apiURL
	}
	if c.set["env"] {
		cfg.Env = c.env
	}
	if c.set["workers"] {
		cfg.Workers = c.workers
	}
	if c.set["retries"] {
		cfg.Retries = c.retries
	}
	if c.set["headless"] {
		cfg.Headless = c.headless
	}
	if c.set["browser"] {
		cfg.Browser = c.browser
	}
	return cfg, cfg.Validate()
}

// rerunCommand returns a command line that runs only the failed tests again.
func (c *commandParams) rerunCommand(args []string, results framework.Results) string {
	var cmd commandBuilder
	cmd.add(args[0])
	for i := 1; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-run" || a == "--run":
			i++
		case strings.HasPrefix(a, "-run=") || strings.HasPrefix(a, "--run="):
		default:
			cmd.add(a)
		}
	}

	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, regexp.QuoteMeta(f.TestID.String()))
	}
	cmd.add("-run", "^("+strings.Join(ids, "|")+")$")
	return cmd.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
