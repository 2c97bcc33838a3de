package grading

import (
	"context"
	"io"

	"github.com/labstack/gommon/log"
)

// Result is everything produced by one grading run. All of it is owned by
// the caller; nothing is shared with other runs.
type Result struct {
	Policy      Policy       `json:"policy"`
	Outcome     Outcome      `json:"-"`
	Assignments []Assignment `json:"assignments"`
	Ranges      []Range      `json:"ranges"`
	Summary     Summary      `json:"summary"`
}

// Engine runs the grading pipeline. It holds no per-run state and is safe
// for concurrent use.
type Engine struct {
	log *log.Logger
}

// Engine options

type Option func(*config)

type config struct {
	Logger *log.Logger
}

func WithLogger(l *log.Logger) Option { return func(c *config) { c.Logger = l } }

// NewEngine builds an engine. Without WithLogger, fallbacks are logged at
// WARN to a logger writing nowhere.
func NewEngine(opts ...Option) *Engine {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New("grading")
		cfg.Logger.SetOutput(io.Discard)
	}
	return &Engine{log: cfg.Logger}
}

// Run grades the cohort, synthesizes the grade ranges and computes report
// aggregates. The cohort is not modified. Degenerate statistics are not
// errors; only a malformed cutoff set or a cancelled context is.
func (e *Engine) Run(ctx context.Context, cohort []Record) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	o := GradeCohort(cohort)
	if o.Kind == OutcomeAdaptiveFallback {
		e.log.Warnj(log.JSON{
			"msg":     "relative grading fell back to fixed scale",
			"reason":  o.FallbackReason,
			"records": len(cohort),
		})
	}

	ranges, err := SynthesizeRanges(o)
	if err != nil {
		e.log.Errorf("range synthesis failed: %v", err)
		return Result{}, err
	}

	res := Result{
		Policy:      o.Policy(),
		Outcome:     o,
		Assignments: Assign(cohort, o),
		Ranges:      ranges,
		Summary:     Summarize(cohort, o, ranges),
	}
	e.log.Debugf("graded %d records with %s (%s)", len(cohort), res.Policy, o.Kind)
	return res, nil
}
