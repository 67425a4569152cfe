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
	"fmt"

	"github.com/samber/lo"
)

// Kind is a Level 3 operation.
type Kind int

const (
	Gemm Kind = iota + 1
	Symm
	Syrk
	Syr2k
	Trmm
	Trsm
	Hemm
	Herk
	Her2k
)

// Access tells whether an operand is read or written by the operation.
type Access int

const (
	ReadOnly Access = iota
	ReadWrite
)

// Role is an operand slot of an operation.
type Role struct {
	Name   string
	Access Access
}

type kindInfo struct {
	name        string
	complexOnly bool
	roles       []Role
	beta        bool
}

var kinds = map[Kind]kindInfo{
	Gemm:  {name: "gemm", roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Symm:  {name: "symm", roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Syrk:  {name: "syrk", roles: []Role{{"A", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Syr2k: {name: "syr2k", roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Trmm:  {name: "trmm", roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}},
	Trsm:  {name: "trsm", roles: []Role{{"A", ReadOnly}, {"B", ReadWrite}}},
	Hemm:  {name: "hemm", complexOnly: true, roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Herk:  {name: "herk", complexOnly: true, roles: []Role{{"A", ReadOnly}, {"C", ReadWrite}}, beta: true},
	Her2k: {name: "her2k", complexOnly: true, roles: []Role{{"A", ReadOnly}, {"B", ReadOnly}, {"C", ReadWrite}}, beta: true},
}

// Kinds returns all operations in declaration order.
func Kinds() []Kind {
	return []Kind{Gemm, Symm, Syrk, Syr2k, Trmm, Trsm, Hemm, Herk, Her2k}
}

// ParseKind accepts the operation name without domain prefix.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if kinds[k].name == name {
			return k, nil
		}
	}
	return 0, &UnsupportedFlagError{Flag: "operation", Value: name}
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ComplexOnly reports whether the operation exists only in the complex domain.
func (k Kind) ComplexOnly() bool {
	return kinds[k].complexOnly
}

// Roles returns the operand slots of the operation.
func (k Kind) Roles() []Role {
	return kinds[k].roles
}

// HasBeta reports whether the operation scales its output by beta.
func (k Kind) HasBeta() bool {
	return kinds[k].beta
}

// Output returns the name of the operand written by the operation.
func (k Kind) Output() string {
	role, _ := lo.Find(kinds[k].roles, func(r Role) bool { return r.Access == ReadWrite })
	return role.Name
}

// Descriptor identifies one operation in one domain.
type Descriptor struct {
	Kind   Kind
	Domain Domain
}

// Descriptors returns every legal (operation, domain) combination.
func Descriptors() []Descriptor {
	var descriptors []Descriptor
	for _, domain := range []Domain{Real, Complex} {
		for _, k := range Kinds() {
			if domain == Real && k.ComplexOnly() {
				continue
			}
			descriptors = append(descriptors, Descriptor{Kind: k, Domain: domain})
		}
	}
	return descriptors
}

// Name returns the BLAS routine name, e.g. dgemm or zherk.
func (d Descriptor) Name() string {
	return d.Domain.Prefix() + d.Kind.String()
}

func (d Descriptor) String() string {
	return d.Name()
}

// Legal checks that the operation exists in the requested domain.
func (d Descriptor) Legal() error {
	if _, ok := kinds[d.Kind]; !ok {
		return &UnsupportedFlagError{Op: d.Name(), Flag: "operation", Value: d.Kind.String()}
	}
	if !d.Domain.Valid() {
		return &UnsupportedFlagError{Op: d.Name(), Flag: "domain", Value: d.Domain.String()}
	}
	if d.Domain == Real && d.Kind.ComplexOnly() {
		return &UnsupportedFlagError{Op: d.Name(), Flag: "domain", Value: d.Domain.String()}
	}
	return nil
}

// Call is a complete request to one Level 3 operation. Flags that an
// operation does not use are ignored.
type Call struct {
	Descriptor
	Order  Order
	TransA Transpose
	TransB Transpose
	Side   Side
	Uplo   Uplo
	Diag   Diag
	Alpha  Scalar
	Beta   Scalar
	A      Matrix
	B      Matrix
	C      Matrix
}

// Operand returns the matrix bound to a role name.
func (c *Call) Operand(name string) Matrix {
	switch name {
	case "A":
		return c.A
	case "B":
		return c.B
	default:
		return c.C
	}
}

// Output returns the matrix written by the call.
func (c *Call) Output() Matrix {
	return c.Operand(c.Kind.Output())
}
