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

package conformance

import (
	"testing"

	"github.com/gorse-io/level3/common/blas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGonumConformance(t *testing.T) {
	backend, err := blas.OpenBackend("gonum")
	require.NoError(t, err)
	for _, result := range Run(blas.New(backend)) {
		assert.True(t, result.Passed(), "%s: %v", result.Name, result.Err)
	}
}

func TestScenarioNames(t *testing.T) {
	names := make(map[string]struct{})
	for _, s := range Scenarios() {
		assert.NotEmpty(t, s.Name)
		assert.NotNil(t, s.Run)
		names[s.Name] = struct{}{}
	}
	assert.Len(t, names, len(Scenarios()))
}

func TestDenseView(t *testing.T) {
	d := newDense(2, 3)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			d.set(i, j, complex(float64(i*3+j), 0))
		}
	}
	row := d.view(blas.Real, blas.RowMajor)
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, row.Real)
	col := d.view(blas.Real, blas.ColMajor)
	assert.Equal(t, []float64{0, 3, 1, 4, 2, 5}, col.Real)
	assert.NoError(t, compare("row", fromView(row, blas.RowMajor), d, 0))
	assert.NoError(t, compare("col", fromView(col, blas.ColMajor), d, 0))
}

func TestCompare(t *testing.T) {
	a := filled(2, 2, 1)
	b := a.clone()
	assert.NoError(t, compare("same", a, b, 0))
	b.set(1, 0, 1.5)
	assert.Error(t, compare("differ", a, b, 0.1))
	assert.NoError(t, compareWhere("upper", a, b, 0, func(i, j int) bool {
		return inTriangle(blas.Upper, i, j)
	}))
	// a NaN never matches
	c := filled(1, 1, nan())
	assert.Error(t, compare("nan", c, c.clone(), 0))
}

func TestDenseMul(t *testing.T) {
	a := filled(2, 3, 1)
	b := filled(3, 4, 2)
	p := a.mul(b)
	assert.Equal(t, 2, p.rows)
	assert.Equal(t, 4, p.cols)
	assert.NoError(t, compare("product", p, filled(2, 4, 6), 0))
	assert.Panics(t, func() { b.mul(a) })
}

func TestRunScenarioRecovers(t *testing.T) {
	backend, err := blas.OpenBackend("gonum")
	require.NoError(t, err)
	err = runScenario(Scenario{Name: "broken", Run: func(*blas.Level3) error {
		filled(2, 3, 1).mul(filled(2, 3, 1))
		return nil
	}}, blas.New(backend))
	assert.ErrorContains(t, err, "broken panicked")
}
