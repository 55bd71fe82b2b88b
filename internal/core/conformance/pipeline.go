package conformance

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

// Outcome is the verdict of one scenario
type Outcome string

const (
	OutcomePass  Outcome = "pass"
	OutcomeFail  Outcome = "fail"
	OutcomeError Outcome = "error"
	OutcomeSkip  Outcome = "skip"
)

// Scenario is one ordered step validating a single API operation's contract
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, f *Fixture) error
}

// ScenarioResult is what the pipeline records for a scenario
type ScenarioResult struct {
	Order       int
	Name        string
	Description string
	Outcome     Outcome
	Message     string
	Method      string
	URL         string
	StatusCode  int
	Duration    time.Duration
}

// Pipeline runs scenarios in declared order against one fixture
type Pipeline struct {
	scenarios []Scenario
	filter    *regexp.Regexp
}

// NewPipeline creates a pipeline over the scenarios in the given order
func NewPipeline(scenarios ...Scenario) *Pipeline {
	return &Pipeline{scenarios: scenarios}
}

// Filter restricts the run to scenarios whose name matches re. The others
// are reported as skipped. A nil re selects everything.
func (p *Pipeline) Filter(re *regexp.Regexp) *Pipeline {
	p.filter = re
	return p
}

// Scenarios returns the scenarios in run order
func (p *Pipeline) Scenarios() []Scenario {
	return p.scenarios
}

// Run executes every scenario. A scenario failure never stops the run; a
// cancelled context marks the remaining scenarios as errors.
func (p *Pipeline) Run(ctx context.Context, f *Fixture) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(p.scenarios))

	for i, sc := range p.scenarios {
		res := ScenarioResult{
			Order:       i + 1,
			Name:        sc.Name,
			Description: sc.Description,
		}

		switch {
		case p.filter != nil && !p.filter.MatchString(sc.Name):
			res.Outcome = OutcomeSkip
			res.Message = "not selected"
		case ctx.Err() != nil:
			res.Outcome = OutcomeError
			res.Message = fmt.Sprintf("run cancelled: %v", ctx.Err())
		default:
			p.runOne(ctx, f, sc, &res)
		}

		logger.Info("Scenario finished",
			logger.Int("order", res.Order),
			logger.String("name", res.Name),
			logger.String("outcome", string(res.Outcome)),
			logger.String("message", res.Message),
			logger.Duration("duration", res.Duration))

		results = append(results, res)
	}

	return results
}

func (p *Pipeline) runOne(ctx context.Context, f *Fixture, sc Scenario, res *ScenarioResult) {
	f.takeLast()
	start := time.Now()
	err := sc.Run(ctx, f)
	res.Duration = time.Since(start)

	if last := f.takeLast(); last != nil {
		res.Method = last.Method
		res.URL = last.URL
		res.StatusCode = last.StatusCode
	}

	res.Outcome = Classify(err)
	if err != nil {
		res.Message = err.Error()
	}
}

// Classify maps a scenario error to an outcome. Contract violations and a
// missing identifier are failures; anything else is an error.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomePass
	}
	var expErr *ExpectationError
	if errors.As(err, &expErr) || errors.Is(err, ErrNoStoryID) {
		return OutcomeFail
	}
	return OutcomeError
}

// Passed reports whether no scenario failed or errored
func Passed(results []ScenarioResult) bool {
	for _, r := range results {
		if r.Outcome == OutcomeFail || r.Outcome == OutcomeError {
			return false
		}
	}
	return true
}
