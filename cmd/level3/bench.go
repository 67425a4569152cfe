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

package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gorse-io/level3/common/blas"
	"github.com/gorse-io/level3/common/parallel"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/atomic"
)

var benchCmd = &cobra.Command{
	Use:          "bench",
	Short:        "Benchmark Level 3 operations",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, l3, err := setup(cmd)
		if err != nil {
			return err
		}
		serveMetrics(conf)
		domain, err := blas.ParseDomain(conf.Bench.Domain)
		if err != nil {
			return errors.Trace(err)
		}
		ops, _ := cmd.Flags().GetStringSlice("ops")
		descriptors := lo.Filter(blas.Descriptors(), func(d blas.Descriptor, _ int) bool {
			return d.Domain == domain && (len(ops) == 0 || lo.Contains(ops, d.Kind.String()))
		})
		if len(descriptors) == 0 {
			return errors.NotValidf("operations %v in domain %v", ops, domain)
		}
		bar := progressbar.Default(int64(len(descriptors)*len(conf.Bench.Sizes)*conf.Bench.Repeat), "benchmarking")
		results, err := runBench(cmd.Context(), l3, descriptors, conf.Bench.Sizes, conf.Bench.Repeat, conf.Batch.Jobs, bar)
		if err != nil {
			return err
		}
		return renderBench(os.Stdout, results)
	},
}

func init() {
	benchCmd.Flags().StringSlice("ops", nil, "operations to benchmark, e.g. gemm,trsm (default all)")
}

type benchResult struct {
	Op      string
	Size    int
	Calls   int
	Bytes   int64
	Seconds float64
	GFLOPS  float64
}

// runBench times repeat batches of jobs independent calls per operation and size.
func runBench(ctx context.Context, l3 *blas.Level3, descriptors []blas.Descriptor, sizes []int,
	repeat, jobs int, bar *progressbar.ProgressBar) ([]benchResult, error) {
	var results []benchResult
	for _, desc := range descriptors {
		for _, n := range sizes {
			calls := make([]*blas.Call, jobs)
			bytes := atomic.NewInt64(0)
			if err := parallel.For(ctx, jobs, jobs, func(i int) {
				rng := rand.New(rand.NewPCG(uint64(n), uint64(i)))
				calls[i] = newBenchCall(desc, n, rng)
				bytes.Add(callBytes(calls[i]))
			}); err != nil {
				return nil, errors.Trace(err)
			}
			start := time.Now()
			for r := 0; r < repeat; r++ {
				if err := l3.Batch(ctx, calls, jobs); err != nil {
					return nil, errors.Annotatef(err, "%v n=%d", desc, n)
				}
				_ = bar.Add(1)
			}
			elapsed := time.Since(start).Seconds()
			results = append(results, benchResult{
				Op:      desc.Name(),
				Size:    n,
				Calls:   repeat * jobs,
				Bytes:   bytes.Load(),
				Seconds: elapsed,
				GFLOPS:  float64(repeat*jobs) * flops(desc, n) / elapsed / 1e9,
			})
		}
	}
	_ = bar.Finish()
	return results, nil
}

// newBenchCall creates a row-major call on random n×n operands. Triangular
// operands are diagonally dominant so repeated solves stay bounded.
func newBenchCall(desc blas.Descriptor, n int, rng *rand.Rand) *blas.Call {
	matrix := func(dominant bool) blas.Matrix {
		if desc.Domain == blas.Real {
			data := make([]float64, n*n)
			for i := range data {
				data[i] = rng.Float64() - 0.5
			}
			if dominant {
				for i := 0; i < n; i++ {
					data[i*n+i] = float64(n)
				}
			}
			return blas.NewReal(n, n, data)
		}
		data := make([]complex128, n*n)
		for i := range data {
			data[i] = complex(rng.Float64()-0.5, rng.Float64()-0.5)
		}
		if dominant {
			for i := 0; i < n; i++ {
				data[i*n+i] = complex(float64(n), 0)
			}
		}
		return blas.NewComplex(n, n, data)
	}
	scalar := func(x float64) blas.Scalar {
		if desc.Domain == blas.Real {
			return blas.RealScalar(x)
		}
		return blas.ComplexScalar(complex(x, 0))
	}
	call := &blas.Call{
		Descriptor: desc,
		Order:      blas.RowMajor,
		TransA:     blas.NoTrans,
		TransB:     blas.NoTrans,
		Side:       blas.Left,
		Uplo:       blas.Upper,
		Diag:       blas.NonUnit,
		Alpha:      scalar(1),
		Beta:       scalar(0),
	}
	switch desc.Kind {
	case blas.Trsm:
		call.Alpha = scalar(float64(n))
		call.A, call.B = matrix(true), matrix(false)
	case blas.Trmm:
		call.A, call.B, call.C = matrix(true), matrix(false), matrix(false)
	case blas.Syrk, blas.Herk:
		call.A, call.C = matrix(false), matrix(false)
	default:
		call.A, call.B, call.C = matrix(false), matrix(false), matrix(false)
	}
	return call
}

func callBytes(call *blas.Call) int64 {
	var total int64
	for _, m := range []blas.Matrix{call.A, call.B, call.C} {
		total += int64(len(m.Real))*8 + int64(len(m.Complex))*16
	}
	return total
}

// flops counts floating point operations of one n×n call. A complex
// multiply-add costs four real ones.
func flops(desc blas.Descriptor, n int) float64 {
	cube := float64(n) * float64(n) * float64(n)
	var count float64
	switch desc.Kind {
	case blas.Gemm, blas.Symm, blas.Hemm, blas.Syr2k, blas.Her2k:
		count = 2 * cube
	default:
		count = cube
	}
	if desc.Domain == blas.Complex {
		count *= 4
	}
	return count
}

func renderBench(w io.Writer, results []benchResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Op", "N", "Calls", "Memory", "Seconds", "GFLOPS"})
	for _, r := range results {
		if err := table.Append([]string{
			r.Op,
			fmt.Sprint(r.Size),
			fmt.Sprint(r.Calls),
			fmt.Sprintf("%.1f KiB", float64(r.Bytes)/1024),
			fmt.Sprintf("%.4f", r.Seconds),
			fmt.Sprintf("%.2f", r.GFLOPS),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
