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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRowMajor(t *testing.T) {
	a := NewReal(2, 3, make([]float64, 10)).WithStride(5)
	call := &Call{
		Descriptor: Descriptor{Kind: Gemm, Domain: Real},
		Order:      RowMajor, TransA: NoTrans, TransB: Trans,
		Alpha: RealScalar(2), Beta: RealScalar(1),
		A: a, B: realMatrix(4, 3), C: realMatrix(2, 4),
	}
	kc := Resolve(call)
	assert.Equal(t, NoTrans, kc.TransA)
	assert.Equal(t, Trans, kc.TransB)
	assert.Equal(t, []int{2, 4, 3}, []int{kc.M, kc.N, kc.K})
	assert.Equal(t, 5, kc.A.Stride)
	assert.Equal(t, 3, kc.B.Stride)
	assert.Equal(t, 4, kc.C.Stride)
	assert.Equal(t, 2.0, kc.Alpha.Float())
}

func TestResolveColMajorGemm(t *testing.T) {
	a, b, c := realMatrix(3, 2), realMatrix(3, 4), realMatrix(2, 4)
	call := &Call{
		Descriptor: Descriptor{Kind: Gemm, Domain: Real},
		Order:      ColMajor, TransA: Trans, TransB: NoTrans,
		Alpha: RealScalar(1), Beta: RealScalar(0),
		A: a, B: b, C: c,
	}
	kc := Resolve(call)
	// C^T = B^T A
	assert.Equal(t, NoTrans, kc.TransA)
	assert.Equal(t, Trans, kc.TransB)
	assert.Equal(t, []int{4, 2, 3}, []int{kc.M, kc.N, kc.K})
	assert.Same(t, &b.Real[0], &kc.A.Real[0])
	assert.Same(t, &a.Real[0], &kc.B.Real[0])
	assert.Equal(t, 3, kc.A.Stride)
	assert.Equal(t, 3, kc.B.Stride)
	assert.Equal(t, 2, kc.C.Stride)
}

func TestResolveColMajorSide(t *testing.T) {
	for _, kind := range []Kind{Symm, Hemm, Trmm, Trsm} {
		call := &Call{
			Descriptor: Descriptor{Kind: kind, Domain: Complex},
			Order:      ColMajor, Side: Left, Uplo: Upper, TransA: ConjTrans, Diag: Unit,
			Alpha: ComplexScalar(1 + 1i), Beta: ComplexScalar(0),
			A: complexMatrix(3, 3), B: complexMatrix(3, 5), C: complexMatrix(3, 5),
		}
		kc := Resolve(call)
		assert.Equal(t, Right, kc.Side, kind)
		assert.Equal(t, Lower, kc.Uplo, kind)
		assert.Equal(t, ConjTrans, kc.TransA, kind)
		assert.Equal(t, Unit, kc.Diag, kind)
		assert.Equal(t, []int{5, 3}, []int{kc.M, kc.N}, kind)
		assert.Equal(t, ComplexScalar(1+1i), kc.Alpha, kind)
	}
}

func TestResolveColMajorRankK(t *testing.T) {
	call := &Call{
		Descriptor: Descriptor{Kind: Syrk, Domain: Complex},
		Order:      ColMajor, Uplo: Upper, TransA: NoTrans,
		Alpha: ComplexScalar(1i), Beta: ComplexScalar(0),
		A: complexMatrix(4, 2), C: complexMatrix(4, 4),
	}
	kc := Resolve(call)
	assert.Equal(t, Lower, kc.Uplo)
	assert.Equal(t, Trans, kc.TransA)
	assert.Equal(t, []int{4, 2}, []int{kc.N, kc.K})
	assert.Equal(t, 4, kc.A.Stride)

	call.Kind, call.TransA = Herk, ConjTrans
	call.A = complexMatrix(2, 4)
	kc = Resolve(call)
	assert.Equal(t, Lower, kc.Uplo)
	assert.Equal(t, NoTrans, kc.TransA)
	assert.Equal(t, []int{4, 2}, []int{kc.N, kc.K})

	call.Kind, call.TransA = Syr2k, Trans
	kc = Resolve(call)
	assert.Equal(t, NoTrans, kc.TransA)
	assert.Equal(t, ComplexScalar(1i), kc.Alpha)

	// her2k conjugates alpha
	call.Kind, call.TransA = Her2k, NoTrans
	call.A, call.B = complexMatrix(4, 2), complexMatrix(4, 2)
	call.Alpha = ComplexScalar(2 + 3i)
	kc = Resolve(call)
	assert.Equal(t, Lower, kc.Uplo)
	assert.Equal(t, ConjTrans, kc.TransA)
	assert.Equal(t, ComplexScalar(2-3i), kc.Alpha)
	call.Order = RowMajor
	assert.Equal(t, ComplexScalar(2+3i), Resolve(call).Alpha)
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Trans, toggle(NoTrans, Trans))
	assert.Equal(t, ConjTrans, toggle(NoTrans, ConjTrans))
	assert.Equal(t, NoTrans, toggle(Trans, Trans))
	assert.Equal(t, NoTrans, toggle(ConjTrans, ConjTrans))
}
