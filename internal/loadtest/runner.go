package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Result is one iteration.
type Result struct {
	VU        int
	Iteration int
	RequestID string
	Status    int
	Duration  time.Duration
	Err       error
}

// Passed is the check of every iteration: the order endpoint answered 200.
func (r Result) Passed() bool {
	return r.Err == nil && r.Status == http.StatusOK
}

// Summary aggregates a run.
type Summary struct {
	Iterations int
	Passed     int
	Failed     int
	Min        time.Duration
	Avg        time.Duration
	Max        time.Duration
	P95        time.Duration
	Elapsed    time.Duration
}

// Runner executes a run.
type Runner struct {
	cfg    Config
	client *http.Client
	log    *logrus.Logger
	newID  func() string
}

func NewRunner(cfg Config, client *http.Client, log *logrus.Logger) *Runner {
	if client == nil {
		client = http.DefaultClient
	}
	return &Runner{cfg: cfg, client: client, log: log, newID: uuid.NewString}
}

// Run starts cfg.VUs workers that take iterations from a shared counter
// until cfg.Iterations are done or cfg.MaxDuration elapses. Iterations not
// started before the deadline are not counted.
func (r *Runner) Run(ctx context.Context) (Summary, []Result) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.MaxDuration)
	defer cancel()

	var (
		next    atomic.Int64
		mu      sync.Mutex
		results = make([]Result, 0, r.cfg.Iterations)
	)

	start := time.Now()
	var g errgroup.Group
	for vu := 1; vu <= r.cfg.VUs; vu++ {
		vu := vu
		g.Go(func() error {
			for iter := 0; ; iter++ {
				if ctx.Err() != nil {
					return nil
				}
				if next.Add(1) > int64(r.cfg.Iterations) {
					return nil
				}
				res := r.iterate(ctx, vu, iter)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		})
	}
	_ = g.Wait()

	sum := Summarize(results)
	sum.Elapsed = time.Since(start)
	return sum, results
}

func (r *Runner) iterate(ctx context.Context, vu, iter int) Result {
	res := Result{VU: vu, Iteration: iter, RequestID: r.requestID()}
	log := r.log.WithFields(logrus.Fields{"vu": vu, "iter": iter, "request_id": res.RequestID})

	payload, err := json.Marshal(models.OrderRequest{
		UserID:      r.cfg.UserID,
		OrderAmount: r.cfg.OrderAmount,
		CouponCode:  r.cfg.CouponCode,
		RequestID:   res.RequestID,
		OrderDate:   r.cfg.OrderDate,
	})
	if err != nil {
		res.Err = err
		return res
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+OrderPath, bytes.NewReader(payload))
	if err != nil {
		res.Err = err
		return res
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", r.cfg.authorization())

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		res.Duration = time.Since(start)
		res.Err = err
		log.WithError(err).WithField("duration_ms", res.Duration.Milliseconds()).Error("request failed")
		return res
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	res.Duration = time.Since(start)
	res.Status = resp.StatusCode
	if err != nil {
		res.Err = fmt.Errorf("read body: %w", err)
	}

	log = log.WithFields(logrus.Fields{"status": res.Status, "duration_ms": res.Duration.Milliseconds()})
	if !res.Passed() {
		log.WithField("body", prettyBody(body)).Warn("check failed: status is not 200")
		return res
	}
	log.Info("iteration done")
	if len(body) > 0 {
		log.Debug("response: " + prettyBody(body))
	}
	return res
}

func (r *Runner) requestID() string {
	if r.cfg.RequestID != "" {
		return r.cfg.RequestID
	}
	return r.cfg.RequestIDPrefix + r.newID()
}

// prettyBody indents JSON bodies and returns anything else unchanged.
func prettyBody(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

// Summarize computes counts and latency statistics. P95 uses the
// nearest-rank method.
func Summarize(results []Result) Summary {
	s := Summary{Iterations: len(results)}
	if len(results) == 0 {
		return s
	}

	durations := make([]time.Duration, 0, len(results))
	var total time.Duration
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		durations = append(durations, r.Duration)
		total += r.Duration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	s.Min = durations[0]
	s.Max = durations[len(durations)-1]
	s.Avg = total / time.Duration(len(durations))
	rank := (95*len(durations) + 99) / 100
	s.P95 = durations[rank-1]
	return s
}

// Fields renders the summary for structured logging.
func (s Summary) Fields() logrus.Fields {
	return logrus.Fields{
		"iterations":    s.Iterations,
		"checks_passed": s.Passed,
		"checks_failed": s.Failed,
		"min_ms":        s.Min.Milliseconds(),
		"avg_ms":        s.Avg.Milliseconds(),
		"max_ms":        s.Max.Milliseconds(),
		"p95_ms":        s.P95.Milliseconds(),
		"elapsed_ms":    s.Elapsed.Milliseconds(),
	}
}
