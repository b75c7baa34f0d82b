package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/dorisql/internal/cli/output"
	"github.com/leapstack-labs/dorisql/pkg/core"
	"github.com/leapstack-labs/dorisql/pkg/dialect"
	"github.com/leapstack-labs/dorisql/pkg/dialects/doris"
)

// dateTimeLayout is how Doris prints DATETIME values.
const dateTimeLayout = time.DateTime

// VerifyOptions holds options for the verify command.
type VerifyOptions struct {
	Probe       string
	Concurrency int
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the dialect's generated SQL against the target",
		Long: `Execute every time bucket, the interval rules and the timezone
conversion for a probe timestamp on the configured target, and compare the
results with the expected values.

Checks run concurrently over one connection pool.`,
		Example: `  # Verify against the target in dorisql.yaml
  dorisql verify

  # Probe a quarter boundary
  dorisql verify --probe "2023-11-15 08:30:00"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Probe, "probe", "2024-02-14 13:45:30", "Probe timestamp (YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Maximum checks in flight")

	return cmd
}

// verifyCheck is one statement and the value it must return. An empty
// want accepts any value.
type verifyCheck struct {
	Name string
	SQL  string
	Want string
}

type verifyResult struct {
	verifyCheck
	Got string
	Err error
}

func (r verifyResult) OK() bool {
	return r.Err == nil && (r.Want == "" || r.Got == r.Want)
}

func (r verifyResult) detail() string {
	switch {
	case r.Err != nil:
		return r.Err.Error()
	case r.OK():
		return r.Got
	default:
		return fmt.Sprintf("got %s, want %s", r.Got, r.Want)
	}
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions) error {
	probe, err := parseProbe(opts.Probe)
	if err != nil {
		return err
	}

	c := NewCommandContext(cmd)
	q, err := c.Query()
	if err != nil {
		return err
	}
	checks, err := buildChecks(q, probe)
	if err != nil {
		return err
	}

	a, err := c.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	results, err := runChecks(cmd.Context(), a, checks, opts.Concurrency)
	if err != nil {
		return err
	}
	return reportChecks(c.Renderer, q.Dialect().DisplayName, results)
}

// parseProbe parses the --probe timestamp. Week and quarter buckets count
// whole units from doris.Epoch and TIMESTAMPDIFF truncates toward zero, so
// earlier probes would land one bucket late and are rejected.
func parseProbe(value string) (time.Time, error) {
	probe, err := time.Parse(dateTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --probe: %w", err)
	}
	epoch, err := time.Parse(time.DateOnly, doris.Epoch)
	if err != nil {
		return time.Time{}, err
	}
	if probe.Before(epoch) {
		return time.Time{}, fmt.Errorf("invalid --probe: %s is before the bucket epoch %s", value, doris.Epoch)
	}
	return probe, nil
}

// buildChecks renders the statements for probe. Bucket expectations are
// computed in Go; the timezone check only has to execute.
func buildChecks(q *dialect.Query, probe time.Time) ([]verifyCheck, error) {
	literal := fmt.Sprintf("CAST('%s' AS DATETIME)", probe.Format(dateTimeLayout))

	checks := make([]verifyCheck, 0, len(core.Granularities)+2)
	for _, g := range core.Granularities {
		expr, err := q.TimeGroupedColumn(g, literal)
		if err != nil {
			return nil, err
		}
		checks = append(checks, verifyCheck{
			Name: "bucket " + g.String(),
			SQL:  "SELECT " + expr,
			Want: expectedBucket(g, probe).Format(dateTimeLayout),
		})
	}

	checks = append(checks,
		verifyCheck{
			Name: "interval round trip",
			SQL:  "SELECT " + q.SubtractInterval(q.AddInterval(literal, "1 DAY"), "1 DAY"),
			Want: probe.Format(dateTimeLayout),
		},
		verifyCheck{
			Name: "convert_tz " + q.Timezone(),
			SQL:  "SELECT " + q.ConvertTz(literal),
		},
	)
	return checks, nil
}

// expectedBucket floors t to the start of its g bucket. Weeks start on
// Monday and quarters on January, April, July and October.
func expectedBucket(g core.Granularity, t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case core.GranularitySecond:
		return t.Truncate(time.Second)
	case core.GranularityMinute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())
	case core.GranularityHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	case core.GranularityDay:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case core.GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7 // days since Monday
		return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
	case core.GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case core.GranularityQuarter:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	}
}

// runChecks executes checks with at most limit in flight. A failing
// statement is recorded on its result; only context cancellation aborts.
func runChecks(ctx context.Context, q querier, checks []verifyCheck, limit int) ([]verifyResult, error) {
	results := make([]verifyResult, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, chk := range checks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			got, err := queryScalar(ctx, q, chk.SQL)
			results[i] = verifyResult{verifyCheck: chk, Got: got, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func queryScalar(ctx context.Context, q querier, sqlQuery string) (string, error) {
	rows, err := q.Query(ctx, sqlQuery)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no rows returned")
	}
	var v any
	if err := rows.Scan(&v); err != nil {
		return "", err
	}
	return formatValue(v), rows.Err()
}

func reportChecks(r *output.Renderer, dialectName string, results []verifyResult) error {
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML, output.ModeCSV:
		rows := make([][]string, len(results))
		for i, res := range results {
			status := "pass"
			if !res.OK() {
				status = "fail"
			}
			rows[i] = []string{res.Name, status, res.detail(), res.SQL}
		}
		if err := r.Table([]string{"check", "status", "detail", "sql"}, rows); err != nil {
			return err
		}
	default:
		r.Header(fmt.Sprintf("Verifying %s dialect", dialectName))
		for _, res := range results {
			r.StatusLine(res.Name, res.OK(), res.detail())
		}
		r.Println("")
		if failed == 0 {
			r.Success(fmt.Sprintf("All %d checks passed", len(results)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}
	return nil
}
