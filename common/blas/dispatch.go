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

// Operand is a raw buffer with its leading dimension in canonical layout.
type Operand struct {
	Real    []float64
	Complex []complex128
	Stride  int
}

// KernelCall describes which backend entry point to invoke and how to
// address its operands. All operands are in row-major layout. It is produced
// by Resolve and carries no arithmetic of its own.
type KernelCall struct {
	Descriptor
	TransA Transpose
	TransB Transpose
	Side   Side
	Uplo   Uplo
	Diag   Diag
	M      int
	N      int
	K      int
	Alpha  Scalar
	Beta   Scalar
	A      Operand
	B      Operand
	C      Operand
}

func operand(m Matrix, order Order) Operand {
	return Operand{Real: m.Real, Complex: m.Complex, Stride: m.leading(order)}
}

// Resolve maps a validated call to a kernel call. Column-major storage of a
// matrix is row-major storage of its transpose, so column-major calls are
// rewritten as the transposed problem: operand roles, sides, triangles and
// transpose flags change while buffers and leading dimensions stay as given.
// Symmetric and Hermitian operands are passed as stored; the mirror triangle
// is never materialized.
func Resolve(call *Call) *KernelCall {
	kc := &KernelCall{
		Descriptor: call.Descriptor,
		TransA:     call.TransA,
		TransB:     call.TransB,
		Side:       call.Side,
		Uplo:       call.Uplo,
		Diag:       call.Diag,
		Alpha:      call.Alpha,
		Beta:       call.Beta,
		A:          operand(call.A, call.Order),
		B:          operand(call.B, call.Order),
		C:          operand(call.C, call.Order),
	}
	a, b, c := call.A, call.B, call.C
	switch call.Kind {
	case Gemm:
		kc.M, kc.K = opShape(a, call.TransA)
		kc.N = c.Cols
	case Symm, Hemm:
		kc.M, kc.N = c.Rows, c.Cols
	case Syrk, Syr2k, Herk, Her2k:
		kc.N, kc.K = opShape(a, call.TransA)
	case Trmm, Trsm:
		kc.M, kc.N = b.Rows, b.Cols
	}
	if call.Order == RowMajor {
		return kc
	}

	switch call.Kind {
	case Gemm:
		// C^T = op(B)^T op(A)^T
		kc.A, kc.B = kc.B, kc.A
		kc.TransA, kc.TransB = call.TransB, call.TransA
		kc.M, kc.N = kc.N, kc.M
	case Symm, Hemm, Trmm, Trsm:
		kc.Side = call.Side.Flip()
		kc.Uplo = call.Uplo.Flip()
		kc.M, kc.N = kc.N, kc.M
	case Syrk, Syr2k:
		kc.Uplo = call.Uplo.Flip()
		kc.TransA = toggle(call.TransA, Trans)
	case Herk:
		kc.Uplo = call.Uplo.Flip()
		kc.TransA = toggle(call.TransA, ConjTrans)
	case Her2k:
		// C^T = conj(alpha) A'^H B' + alpha B'^H A' with A' = A^T, B' = B^T
		kc.Uplo = call.Uplo.Flip()
		kc.TransA = toggle(call.TransA, ConjTrans)
		kc.Alpha = call.Alpha.conj()
	}
	return kc
}

// toggle swaps NoTrans with the given transposition.
func toggle(t, with Transpose) Transpose {
	if t == NoTrans {
		return with
	}
	return NoTrans
}
