package framework

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportInfo describes the run that a report belongs to.
type ReportInfo struct {
	Title       string
	Environment string
	StartedAt   time.Time
}

type report struct {
	Title       string         `yaml:"title"`
	Environment string         `yaml:"environment,omitempty"`
	StartedAt   time.Time      `yaml:"startedAt"`
	Duration    string         `yaml:"duration"`
	Passed      int            `yaml:"passed"`
	Failed      int            `yaml:"failed"`
	Skipped     int            `yaml:"skipped"`
	Tests       []reportedTest `yaml:"tests"`
}

type reportedTest struct {
	ID          string            `yaml:"id"`
	Status      string            `yaml:"status"`
	Duration    string            `yaml:"duration,omitempty"`
	Attempts    int               `yaml:"attempts,omitempty"`
	SkipReason  string            `yaml:"skipReason,omitempty"`
	Errors      []string          `yaml:"errors,omitempty"`
	Attachments map[string]string `yaml:"attachments,omitempty"`
}

// WriteReport writes the results of a run as YAML, creating the parent directory if necessary.
func WriteReport(path string, info ReportInfo, results Results) error {
	passed, failed, skipped := results.Counts()
	r := report{
		Title:       info.Title,
		Environment: info.Environment,
		StartedAt:   info.StartedAt.UTC(),
		Duration:    time.Since(info.StartedAt).Round(time.Millisecond).String(),
		Passed:      passed,
		Failed:      failed,
		Skipped:     skipped,
	}
	for _, t := range results.Tests {
		rt := reportedTest{
			ID:         t.TestID.String(),
			Status:     "passed",
			Attempts:   t.Attempts,
			SkipReason: t.SkipReason,
		}
		switch {
		case t.Skipped:
			rt.Status = "skipped"
		case len(t.Errors) > 0:
			rt.Status = "failed"
		}
		if t.Duration > 0 {
			rt.Duration = t.Duration.Round(time.Millisecond).String()
		}
		for _, e := range t.Errors {
			rt.Errors = append(rt.Errors, reformatError(e).Error())
		}
		if len(t.Attachments) > 0 {
			rt.Attachments = make(map[string]string, len(t.Attachments))
			for _, a := range t.Attachments {
				rt.Attachments[a.Name] = a.Value
			}
		}
		r.Tests = append(r.Tests, rt)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
