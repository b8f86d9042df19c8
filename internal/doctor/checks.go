// Package doctor runs diagnostic checks against the viewerator setup: the
// config file, the status source, the logs and the terminal.
package doctor

import (
	"fmt"
	"sync"
)

// CheckStatus is the outcome of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult is what one check reports.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"` // --fix can repair it
}

func (r CheckResult) issue() bool {
	return r.Status == StatusWarn || r.Status == StatusFail
}

// Check is one diagnostic. Category groups results in the report (CONFIG,
// SOURCE, LOG, TERMINAL).
type Check interface {
	Name() string
	Category() string
	Run() CheckResult
	// Fix repairs what Run reported. Checks that need a human return nil.
	Fix() error
}

// Run executes every check concurrently. Results are in check order.
func Run(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Run()
		}()
	}
	wg.Wait()
	return results
}

// Fix repairs the fixable issues in results and runs the repaired checks
// again. A failed fix leaves its result as it was.
func Fix(checks []Check, results []CheckResult) []CheckResult {
	for i, r := range results {
		if !r.Fixable || !r.issue() {
			continue
		}
		if err := checks[i].Fix(); err == nil {
			results[i] = checks[i].Run()
		}
	}
	return results
}

// Tally counts results by status.
type Tally struct {
	Pass    int
	Warn    int
	Fail    int
	Fixable int
}

// Count tallies results.
func Count(results []CheckResult) Tally {
	var t Tally
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			t.Pass++
		case StatusWarn:
			t.Warn++
		case StatusFail:
			t.Fail++
		}
		if r.Fixable && r.issue() {
			t.Fixable++
		}
	}
	return t
}

// Issues is the number of warnings and failures.
func (t Tally) Issues() int {
	return t.Warn + t.Fail
}

// Summary is the closing line of the report.
func (t Tally) Summary() string {
	n := t.Issues()
	if n == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d issue%s found", n, pluralize(n))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
