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
	"bytes"
	"context"
	"math/rand/v2"
	"testing"

	"github.com/gorse-io/level3/common/blas"
	"github.com/gorse-io/level3/common/blas/conformance"
	"github.com/gorse-io/level3/common/log"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewBenchCall(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	for _, desc := range blas.Descriptors() {
		call := newBenchCall(desc, 8, rng)
		assert.NoError(t, blas.Validate(call), desc.Name())
	}
}

func TestFlops(t *testing.T) {
	assert.Equal(t, 2000.0, flops(blas.Descriptor{Kind: blas.Gemm, Domain: blas.Real}, 10))
	assert.Equal(t, 8000.0, flops(blas.Descriptor{Kind: blas.Gemm, Domain: blas.Complex}, 10))
	assert.Equal(t, 1000.0, flops(blas.Descriptor{Kind: blas.Trsm, Domain: blas.Real}, 10))
	assert.Equal(t, 4000.0, flops(blas.Descriptor{Kind: blas.Herk, Domain: blas.Complex}, 10))
}

func TestRunBench(t *testing.T) {
	backend, err := blas.OpenBackend("gonum")
	require.NoError(t, err)
	descriptors := []blas.Descriptor{
		{Kind: blas.Gemm, Domain: blas.Real},
		{Kind: blas.Trsm, Domain: blas.Complex},
	}
	bar := progressbar.DefaultSilent(4)
	results, err := runBench(context.Background(), blas.New(backend), descriptors, []int{4, 8}, 2, 3, bar)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, "dgemm", results[0].Op)
	assert.Equal(t, 8, results[1].Size)
	assert.Equal(t, "ztrsm", results[2].Op)
	for _, r := range results {
		assert.Equal(t, 6, r.Calls)
		assert.Positive(t, r.GFLOPS)
	}
	// three calls with A, B and C of 4x4 float64
	assert.Equal(t, int64(3*3*16*8), results[0].Bytes)

	var buf bytes.Buffer
	assert.NoError(t, renderBench(&buf, results))
	assert.Contains(t, buf.String(), "ztrsm")
	assert.Contains(t, buf.String(), "GFLOPS")
}

func TestRunBenchCancel(t *testing.T) {
	backend, err := blas.OpenBackend("gonum")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runBench(ctx, blas.New(backend), []blas.Descriptor{{Kind: blas.Gemm, Domain: blas.Real}},
		[]int{4}, 1, 1, progressbar.DefaultSilent(1))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	err := renderResults(&buf, []conformance.Result{
		{Name: "gemm identity"},
		{Name: "trsm solve", Err: errors.New("element (0,0) = 3, want 2")},
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "gemm identity")
	assert.Contains(t, buf.String(), "PASS")
	assert.Contains(t, buf.String(), "FAIL")
	assert.Contains(t, buf.String(), "want 2")
}

func TestSetupQuiet(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--quiet", "--backend", "gonum"}))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("quiet", "false")
		_ = rootCmd.PersistentFlags().Set("backend", "")
	})
	conf, level3, err := setup(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "gonum", conf.Backend.Name)
	assert.Equal(t, "gonum", level3.Backend().Name())
	assert.False(t, log.Logger().Core().Enabled(zapcore.ErrorLevel))
}
