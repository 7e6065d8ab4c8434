// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
)

// ResultStatus is the outcome of an entry or lane.
type ResultStatus int

const (
	// ResultStatusSuccess means the entry was dispatched.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means the entry failed to start or its wait failed.
	ResultStatusError
	// ResultStatusSkipped means the entry was never started.
	ResultStatusSkipped
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the outcome of a lane, or of one entry within it.
// Lane results hold their entries as children.
type Result struct {
	Label    string
	Lane     classify.Category
	Command  string // empty for lane results
	Status   ResultStatus
	Error    error
	Children Results
}

// Results is a list of results, one per non-empty lane.
type Results []*Result

// HasError reports whether any entry failed.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Status == ResultStatusError {
			return true
		}

		if v.Children.HasError() {
			return true
		}
	}

	return false
}

// Err returns every entry failure as one error, or nil.
// Skipped entries are not included.
func (r Results) Err() error {
	var merr *multierror.Error

	r.walk(func(res *Result) {
		if res.Status == ResultStatusError && res.Error != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s %q: %w", res.Lane, res.Command, res.Error))
		}
	})

	return merr.ErrorOrNil()
}

// Counts returns the number of dispatched, failed and skipped entries.
func (r Results) Counts() (dispatched, failed, skipped int) {
	r.walk(func(res *Result) {
		switch res.Status {
		case ResultStatusSuccess:
			dispatched++
		case ResultStatusError:
			failed++
		case ResultStatusSkipped:
			skipped++
		}
	})

	return dispatched, failed, skipped
}

// walk calls fn for every entry result, skipping lane results.
func (r Results) walk(fn func(*Result)) {
	for v := range slices.Values(r) {
		if len(v.Children) == 0 {
			if v.Command != "" {
				fn(v)
			}

			continue
		}

		v.Children.walk(fn)
	}
}

// laneStatus derives a lane outcome from its entries.
func laneStatus(children Results) ResultStatus {
	allSkipped := len(children) > 0

	for _, c := range children {
		if c.Status == ResultStatusError {
			return ResultStatusError
		}

		if c.Status != ResultStatusSkipped {
			allSkipped = false
		}
	}

	if allSkipped {
		return ResultStatusSkipped
	}

	return ResultStatusSuccess
}
