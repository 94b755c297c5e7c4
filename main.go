package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/blogapp/blog-e2e-harness/blogstub"
	"github.com/blogapp/blog-e2e-harness/blogtests"
	"github.com/blogapp/blog-e2e-harness/config"
	"github.com/blogapp/blog-e2e-harness/framework"
	"github.com/blogapp/blog-e2e-harness/logging"
)

const targetWaitTimeout = time.Second * 10

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := config.Load(params.envFile, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		os.Exit(1)
	}
	if cfg, err = params.Apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		os.Exit(1)
	}

	suites, err := blogtests.SelectSuites(params.suites)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid parameters: %s\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Dir: cfg.LogDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not set up logging: %s\n", err)
		os.Exit(1)
	}

	ok := run(params, cfg, suites, logger)
	_ = logger.Close()
	if !ok {
		os.Exit(1)
	}
}

func run(params commandParams, cfg config.Config, suites []blogtests.Suite, logger *logging.Logger) bool {
	var otherReasons []string
	if params.stub {
		stub := httptest.NewServer(blogstub.New(cfg.Username, cfg.Password))
		defer stub.Close()
		cfg.APIBaseURL = stub.URL
		logger.Infof("Running the API suites against a stub blog API at %s", stub.URL)
	}

	needsBrowser := blogtests.NeedsBrowser(suites)
	if !params.noWait {
		if err := framework.WaitForTarget("blog API", strings.TrimSuffix(cfg.APIBaseURL, "/")+"/api/health",
			targetWaitTimeout, os.Stdout); err != nil {
			logger.Errorf("API is not available: %s", err)
			return false
		}
		if needsBrowser {
			if err := framework.WaitForTarget("blog UI", cfg.UIBaseURL, targetWaitTimeout, os.Stdout); err != nil {
				logger.Errorf("UI is not available: %s", err)
				return false
			}
		}
	}

	data, err := blogtests.LoadTestData(cfg)
	if err != nil {
		logger.Errorf("Could not load test data: %s", err)
		return false
	}
	if data.ImagePath == "" {
		otherReasons = append(otherReasons, "the test data has no image to upload")
	}

	env := &blogtests.Environment{
		Config:     cfg,
		Data:       data,
		HTTPClient: &http.Client{Timeout: cfg.APITimeout},
	}
	if needsBrowser {
		browser, err := blogtests.LaunchBrowser(cfg)
		if err != nil {
			logger.Errorf("Could not launch the browser: %s", err)
			return false
		}
		defer func() {
			if err := browser.Close(); err != nil {
				logger.Warnf("Error closing the browser: %s", err)
			}
		}()
		env.Sessions = browser
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters, otherReasons)

	logger.Infof("Running %d suite(s) against %s environment with %d worker(s)", len(suites), cfg.Env, cfg.Workers)

	testLogger := newConsoleTestLogger(os.Stdout, params.debug || params.debugAll, params.debugAll)
	opts := framework.RunOptions{
		Filter:      params.filters.AsFilter,
		GroupFilter: params.filters.AsGroupFilter,
		TestLogger:  testLogger,
		Retries:     cfg.Retries,
	}
	if params.debugAll {
		opts.DebugSink = logger
	}

	startedAt := time.Now()
	results := blogtests.RunTestSuite(env, suites, opts, cfg.Workers)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)

	reportPath := params.reportPath
	if reportPath == "" {
		reportPath = cfg.ReportPath()
	}
	info := framework.ReportInfo{Title: "Blog E2E tests", Environment: cfg.Env, StartedAt: startedAt}
	if err := framework.WriteReport(reportPath, info, results); err != nil {
		logger.Errorf("Could not write report: %s", err)
	} else {
		logger.Infof("Report written to %s", reportPath)
	}

	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests again:")
		fmt.Printf("  %s\n", params.rerunCommand(os.Args, results))
		return false
	}
	return true
}
