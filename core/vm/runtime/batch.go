// Copyright 2015 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

package runtime

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchItem is one independent top-level program to run as part of an
// ExecuteBatch call: its own code, calldata, and config (so each item
// may carry its own Origin, Value, or even its own StateDB).
type BatchItem struct {
	Code  []byte
	Input []byte
	Cfg   *Config
}

// BatchResult mirrors Execute's return values for one BatchItem, plus
// the item's index so callers can line results back up after the
// concurrent run reorders nothing but may complete out of order.
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// ExecuteBatch runs every item concurrently, each against its own Frame
// and (unless items intentionally share one) its own StateDB, and
// returns one BatchResult per item in input order. This is legal
// because each item opens an entirely separate top-level frame — the
// single-threaded-per-frame rule governs nesting inside one call stack,
// not independent call stacks run side by side.
//
// A per-item panic (e.g. a StateDB bug) is recovered and surfaced as a
// *panicError carrying the recovered value on that item's result rather
// than aborting the whole batch.
func ExecuteBatch(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	g, _ := errgroup.WithContext(ctx)

	for i, item := range items {
		i, item := i, item
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = BatchResult{Index: i, Err: &panicError{cause: r}}
				}
			}()
			res, runErr := Execute(item.Code, item.Input, item.Cfg)
			results[i] = BatchResult{Index: i, Result: res, Err: runErr}
			return nil
		})
	}
	// errgroup.Go's functions never return a non-nil error themselves
	// (failures are captured per-item above), so Wait only blocks for
	// completion.
	_ = g.Wait()
	return results
}

type panicError struct{ cause interface{} }

func (e *panicError) Error() string { return fmt.Sprintf("panic during batch execution: %v", e.cause) }
