// Package journal records an audit line for every grading run.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/gradecurve/internal/grading"
)

type Run struct {
	ID             string                `json:"id"`
	Source         string                `json:"source"`
	Policy         grading.Policy        `json:"policy"`
	Outcome        string                `json:"outcome"`
	FallbackReason string                `json:"fallback_reason,omitempty"`
	Records        int                   `json:"records"`
	Present        int                   `json:"present"`
	Average        float64               `json:"average"`
	GradeCounts    map[grading.Grade]int `json:"grade_counts"`
	CreatedAt      int64                 `json:"created_at"`
}

// FromResult builds the audit line for a finished run.
func FromResult(id, source string, records int, res grading.Result) Run {
	return Run{
		ID:             id,
		Source:         source,
		Policy:         res.Policy,
		Outcome:        res.Outcome.Kind.String(),
		FallbackReason: res.Outcome.FallbackReason,
		Records:        records,
		Present:        res.Summary.Count,
		Average:        res.Summary.Average,
		GradeCounts:    res.Summary.GradeCounts,
	}
}

// Journal is where runs are recorded. Nop discards them.
type Journal interface {
	Append(ctx context.Context, r Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

type Nop struct{}

func (Nop) Append(context.Context, Run) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Run, error) { return nil, nil }

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db, now: time.Now} }

func (r *Repo) Append(ctx context.Context, run Run) error {
	counts, err := json.Marshal(run.GradeCounts)
	if err != nil {
		return errors.Wrap(err, "encode grade counts")
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = r.now().Unix()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO grading_runs (id, source, policy, outcome, fallback_reason, records, present, average, grade_counts, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		run.ID, run.Source, string(run.Policy), run.Outcome, run.FallbackReason,
		run.Records, run.Present, run.Average, string(counts), run.CreatedAt)
	return errors.Wrapf(err, "append run %s", run.ID)
}

// MaxRecent caps how many runs Recent returns.
const MaxRecent = 500

// Recent lists the newest runs first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, MaxRecent)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, policy, outcome, fallback_reason, records, present, average, grade_counts, created_at
		 FROM grading_runs ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var policy, counts string
		if err := rows.Scan(&run.ID, &run.Source, &policy, &run.Outcome, &run.FallbackReason,
			&run.Records, &run.Present, &run.Average, &counts, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		run.Policy = grading.Policy(policy)
		if err := json.Unmarshal([]byte(counts), &run.GradeCounts); err != nil {
			return nil, errors.Wrapf(err, "decode grade counts of run %s", run.ID)
		}
		out = append(out, run)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}
