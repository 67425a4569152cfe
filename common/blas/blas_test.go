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

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	gonum "gonum.org/v1/gonum/blas"
)

func TestParseFlags(t *testing.T) {
	order, err := ParseOrder('r')
	assert.NoError(t, err)
	assert.Equal(t, RowMajor, order)
	order, err = ParseOrder('C')
	assert.NoError(t, err)
	assert.Equal(t, ColMajor, order)

	for c, want := range map[byte]Transpose{'n': NoTrans, 'T': Trans, 'c': ConjTrans} {
		trans, err := ParseTranspose(c)
		assert.NoError(t, err)
		assert.Equal(t, want, trans)
	}
	uplo, err := ParseUplo('l')
	assert.NoError(t, err)
	assert.Equal(t, Lower, uplo)
	diag, err := ParseDiag('U')
	assert.NoError(t, err)
	assert.Equal(t, Unit, diag)
	side, err := ParseSide('R')
	assert.NoError(t, err)
	assert.Equal(t, Right, side)

	_, err = ParseTranspose('X')
	assert.True(t, errors.Is(err, errors.NotSupported))
	var flagErr *UnsupportedFlagError
	assert.True(t, errors.As(err, &flagErr))
	assert.Equal(t, "transpose", flagErr.Flag)
	_, err = ParseSide('U')
	assert.Error(t, err)
}

func TestParseDomain(t *testing.T) {
	for _, s := range []string{"d", "real"} {
		domain, err := ParseDomain(s)
		assert.NoError(t, err)
		assert.Equal(t, Real, domain)
	}
	for _, s := range []string{"z", "complex"} {
		domain, err := ParseDomain(s)
		assert.NoError(t, err)
		assert.Equal(t, Complex, domain)
	}
	_, err := ParseDomain("s")
	assert.True(t, errors.Is(err, errors.NotSupported))
}

func TestFlagCodes(t *testing.T) {
	assert.Equal(t, 101, int(RowMajor))
	assert.Equal(t, 102, int(ColMajor))
	assert.Equal(t, 113, int(ConjTrans))
	assert.Equal(t, 122, int(Lower))
	assert.Equal(t, 132, int(Unit))
	assert.Equal(t, 142, int(Right))
	assert.Equal(t, Trans, NewTranspose(true))
	assert.Equal(t, NoTrans, NewTranspose(false))
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "RowMajor", RowMajor.String())
	assert.Equal(t, "ConjTrans", ConjTrans.String())
	assert.Equal(t, "Upper", Upper.String())
	assert.Equal(t, "NonUnit", NonUnit.String())
	assert.Equal(t, "Left", Left.String())
	assert.Equal(t, "complex", Complex.String())
	assert.Equal(t, "Hermitian", Hermitian.String())
	assert.Equal(t, "Transpose(7)", Transpose(7).String())
	assert.False(t, Transpose(7).Valid())
	assert.False(t, Order(0).Valid())
	assert.Equal(t, Lower, Upper.Flip())
	assert.Equal(t, Left, Right.Flip())
}

func TestGonumFlags(t *testing.T) {
	assert.Equal(t, gonum.NoTrans, NoTrans.gonum())
	assert.Equal(t, gonum.Trans, Trans.gonum())
	assert.Equal(t, gonum.ConjTrans, ConjTrans.gonum())
	assert.Equal(t, gonum.Lower, Lower.gonum())
	assert.Equal(t, gonum.Unit, Unit.gonum())
	assert.Equal(t, gonum.Right, Right.gonum())
}

func TestDescriptors(t *testing.T) {
	descriptors := Descriptors()
	assert.Len(t, descriptors, 15)
	names := make(map[string]bool)
	for _, d := range descriptors {
		assert.NoError(t, d.Legal())
		names[d.Name()] = true
	}
	assert.True(t, names["dgemm"])
	assert.True(t, names["zher2k"])
	assert.False(t, names["dherk"])

	err := Descriptor{Kind: Hemm, Domain: Real}.Legal()
	assert.True(t, errors.Is(err, errors.NotSupported))
	assert.Error(t, Descriptor{Kind: Kind(42), Domain: Real}.Legal())
	assert.Error(t, Descriptor{Kind: Gemm}.Legal())
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		assert.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("gemv")
	assert.Error(t, err)
	assert.Equal(t, "C", Gemm.Output())
	assert.Equal(t, "B", Trsm.Output())
	assert.Equal(t, "C", Trmm.Output())
	assert.False(t, Trmm.HasBeta())
	assert.True(t, Herk.HasBeta())
	assert.True(t, Her2k.ComplexOnly())
	assert.False(t, Syr2k.ComplexOnly())
	assert.Len(t, Syrk.Roles(), 2)
}

func TestScalar(t *testing.T) {
	s := RealScalar(2)
	assert.Equal(t, Real, s.Domain())
	assert.Equal(t, 2.0, s.Float())
	assert.Equal(t, "2", s.String())
	z := ComplexScalar(1 + 2i)
	assert.Equal(t, Complex, z.Domain())
	assert.Equal(t, complex(1, -2), z.conj().Complex128())
	assert.False(t, z.IsZero())
	assert.True(t, ComplexScalar(0).IsZero())
	assert.Equal(t, Domain(0), Scalar{}.Domain())
}
