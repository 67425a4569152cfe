// Copyright 2025 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blas

import (
	"context"
	"fmt"
	"time"

	"github.com/gorse-io/level3/common/parallel"
	"go.uber.org/zap"
)

// Batch executes independent calls with up to jobs concurrent workers. Every
// call is validated before any of them runs, and the written operand of each
// call must not overlap any operand of another call, so a rejected batch
// leaves all operands untouched. Calls not yet started are skipped once ctx
// is cancelled; calls already dispatched run to completion. The first
// backend error is returned as it is.
func (l *Level3) Batch(ctx context.Context, calls []*Call, jobs int) error {
	for _, call := range calls {
		if err := Validate(call); err != nil {
			CallsTotal.WithLabelValues(call.Name(), StatusRejected).Inc()
			l.log().Debug("reject blas batch", zap.String("op", call.Name()), zap.Error(err))
			return err
		}
	}
	if err := validateDisjoint(calls); err != nil {
		l.log().Debug("reject blas batch", zap.Error(err))
		return err
	}

	errs := make([]error, len(calls))
	err := parallel.Parallel(ctx, len(calls), jobs, func(_, i int) error {
		errs[i] = l.execute(calls[i], time.Now())
		return errs[i]
	})
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return err
}

// validateDisjoint rejects batches where a call writes memory another call uses.
func validateDisjoint(calls []*Call) error {
	for i, writer := range calls {
		out := writer.Output()
		for j, other := range calls {
			if i == j {
				continue
			}
			for _, role := range other.Kind.Roles() {
				if overlaps(out, writer.Order, other.Operand(role.Name), other.Order) {
					return &ShapeError{Op: writer.Name(), Operand: writer.Kind.Output(), Dim: "alias",
						Reason: fmt.Sprintf("output overlaps operand %s of call %d (%s)", role.Name, j, other.Name())}
				}
			}
		}
	}
	return nil
}
