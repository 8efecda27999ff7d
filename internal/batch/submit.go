// Package batch implements the sequential submission logic shared by the
// checkout and return workflows. The upstream backend accepts one
// transaction per call, so items are submitted strictly in order with a
// fixed pause between them; individual failures are captured and never
// abort the batch.
package batch

import (
	"context"
	"time"
)

// interItemDelay is the pause between consecutive submissions. It paces
// the upstream backend and is deliberately not configurable.
var interItemDelay = 300 * time.Millisecond

// Result is the outcome of one submitted item. The result list of a batch
// always has one entry per input item, in input order.
type Result struct {
	DeviceID string `json:"deviceId"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Outcome classifies a finished batch as a whole.
type Outcome string

const (
	OutcomeAllSucceeded Outcome = "all_succeeded"
	OutcomePartial      Outcome = "partial"
	OutcomeAllFailed    Outcome = "all_failed"
)

// Report aggregates a finished batch for the caller.
type Report struct {
	Outcome   Outcome  `json:"outcome"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

// Operation performs the per-item work, e.g. one borrow or return call.
type Operation[T any] func(ctx context.Context, item T) error

// ProgressFunc is invoked with the number of completed items, the batch
// total, and the ID of the item about to be attempted. After the last
// item it is called once more with completed == total and an empty ID.
type ProgressFunc func(completed, total int, currentID string)

// Submit executes op for every item in order, one at a time, and returns
// one Result per item in the same order. Failures are recorded, not
// raised: a batch always runs to completion with every item attempted,
// and Submit itself never returns an error. onProgress may be nil.
func Submit[T any](ctx context.Context, items []T, id func(T) string, op Operation[T], onProgress ProgressFunc) []Result {
	total := len(items)
	results := make([]Result, 0, total)

	for i, item := range items {
		if onProgress != nil {
			onProgress(i, total, id(item))
		}

		if err := op(ctx, item); err != nil {
			results = append(results, Result{DeviceID: id(item), Success: false, Error: err.Error()})
		} else {
			results = append(results, Result{DeviceID: id(item), Success: true})
		}

		// Pace the upstream; the pause applies between items only and is
		// not skipped after a failure.
		if i < total-1 {
			time.Sleep(interItemDelay)
		}
	}

	if onProgress != nil {
		onProgress(total, total, "")
	}

	return results
}

// Summarize reduces a result list to its three-way classification. An
// empty batch counts as all succeeded.
func Summarize(results []Result) Report {
	report := Report{Results: results}
	for _, r := range results {
		if r.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	switch {
	case report.Failed == 0:
		report.Outcome = OutcomeAllSucceeded
	case report.Succeeded == 0:
		report.Outcome = OutcomeAllFailed
	default:
		report.Outcome = OutcomePartial
	}
	return report
}
