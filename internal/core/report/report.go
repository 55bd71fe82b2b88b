package report

import (
	"time"

	"github.com/Octrafic/spoilercheck/internal/core/conformance"
)

// Report is the outcome of one conformance run
type Report struct {
	BaseURL    string    `json:"base_url" yaml:"base_url" jsonschema:"description=API root the suite ran against"`
	Username   string    `json:"username" yaml:"username"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
	Summary    Summary   `json:"summary" yaml:"summary"`
	Scenarios  []Entry   `json:"scenarios" yaml:"scenarios"`
}

// Summary counts scenarios by outcome
type Summary struct {
	Total   int  `json:"total" yaml:"total"`
	Passed  int  `json:"passed" yaml:"passed"`
	Failed  int  `json:"failed" yaml:"failed"`
	Errored int  `json:"errored" yaml:"errored"`
	Skipped int  `json:"skipped" yaml:"skipped"`
	OK      bool `json:"ok" yaml:"ok" jsonschema:"description=true when nothing failed or errored"`
}

// Entry is one scenario in the report
type Entry struct {
	Order       int    `json:"order" yaml:"order"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Outcome     string `json:"outcome" yaml:"outcome" jsonschema:"enum=pass,enum=fail,enum=error,enum=skip"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
	Method      string `json:"method,omitempty" yaml:"method,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	StatusCode  int    `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	DurationMS  int64  `json:"duration_ms" yaml:"duration_ms"`
}

// New builds a report from pipeline results
func New(baseURL, username string, startedAt time.Time, elapsed time.Duration, results []conformance.ScenarioResult) *Report {
	r := &Report{
		BaseURL:    baseURL,
		Username:   username,
		StartedAt:  startedAt.UTC(),
		DurationMS: elapsed.Milliseconds(),
		Scenarios:  make([]Entry, 0, len(results)),
	}

	for _, res := range results {
		r.Scenarios = append(r.Scenarios, Entry{
			Order:       res.Order,
			Name:        res.Name,
			Description: res.Description,
			Outcome:     string(res.Outcome),
			Message:     res.Message,
			Method:      res.Method,
			URL:         res.URL,
			StatusCode:  res.StatusCode,
			DurationMS:  res.Duration.Milliseconds(),
		})

		r.Summary.Total++
		switch res.Outcome {
		case conformance.OutcomePass:
			r.Summary.Passed++
		case conformance.OutcomeFail:
			r.Summary.Failed++
		case conformance.OutcomeError:
			r.Summary.Errored++
		case conformance.OutcomeSkip:
			r.Summary.Skipped++
		}
	}
	r.Summary.OK = r.Summary.Failed == 0 && r.Summary.Errored == 0

	return r
}
