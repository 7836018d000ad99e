// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package gf2

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"strings"
)

// MaxDim is the largest number of rows or columns supported by a Matrix.
const MaxDim = 64

// ErrSingular is returned when inverting a matrix which has no inverse.
var ErrSingular = errors.New("matrix is singular")

// ErrNotLinear is returned when a table does not describe a linear map.
var ErrNotLinear = errors.New("table is not linear")

// Matrix is a dense matrix over GF(2).  Vectors are identified with unsigned
// integers in most-significant-bit-first order: column j of the matrix acts on
// bit (cols-1-j) of the input, and row i produces bit (rows-1-i) of the output.
// Thus, the integer value of a row mask can be applied directly to an input
// value.
type Matrix struct {
	rows uint
	cols uint
	// Bit k of data[i] holds entry (i, cols-1-k).
	data []uint64
}

// New constructs a zero matrix of the given dimensions.
func New(rows, cols uint) Matrix {
	if rows > MaxDim || cols > MaxDim {
		panic(fmt.Sprintf("matrix dimensions %dx%d too large", rows, cols))
	}
	//
	return Matrix{rows, cols, make([]uint64, rows)}
}

// Identity constructs the n x n identity matrix.
func Identity(n uint) Matrix {
	m := New(n, n)
	//
	for i := uint(0); i < n; i++ {
		m.data[i] = uint64(1) << (n - 1 - i)
	}
	//
	return m
}

// Random constructs a uniformly random matrix of the given dimensions.
func Random(rows, cols uint, rng *rand.Rand) Matrix {
	m := New(rows, cols)
	mask := colMask(cols)
	//
	for i := range m.data {
		m.data[i] = rng.Uint64() & mask
	}
	//
	return m
}

// RandomInvertible constructs a uniformly random invertible n x n matrix, by
// rejection sampling.
func RandomInvertible(n uint, rng *rand.Rand) Matrix {
	for {
		if m := Random(n, n, rng); m.Rank() == n {
			return m
		}
	}
}

// FromTable reconstructs the matrix of a linear map from its truth table.  The
// table must have 2^inBits entries, each less than 2^outBits.  Only the images
// of the unit vectors are used to build the matrix, after which the whole table
// is checked against it.
func FromTable(table []uint, inBits, outBits uint) (Matrix, error) {
	if uint(len(table)) != uint(1)<<inBits {
		return Matrix{}, fmt.Errorf("table has %d entries, expected %d", len(table), uint(1)<<inBits)
	}
	//
	m := New(outBits, inBits)
	//
	for k := uint(0); k < inBits; k++ {
		image := table[uint(1)<<k]
		//
		for i := uint(0); i < outBits; i++ {
			if (image>>(outBits-1-i))&1 == 1 {
				m.data[i] |= uint64(1) << k
			}
		}
	}
	// Check remainder of table agrees
	for x, y := range table {
		if m.Apply(uint(x)) != y {
			return Matrix{}, ErrNotLinear
		}
	}
	//
	return m, nil
}

// Rows returns the number of rows in this matrix.
func (p Matrix) Rows() uint {
	return p.rows
}

// Cols returns the number of columns in this matrix.
func (p Matrix) Cols() uint {
	return p.cols
}

// Get returns entry (i,j) of this matrix.
func (p Matrix) Get(i, j uint) bool {
	return (p.data[i]>>(p.cols-1-j))&1 == 1
}

// Set entry (i,j) of this matrix.
func (p Matrix) Set(i, j uint, val bool) {
	mask := uint64(1) << (p.cols - 1 - j)
	//
	if val {
		p.data[i] |= mask
	} else {
		p.data[i] &^= mask
	}
}

// Apply this matrix to a given vector.
func (p Matrix) Apply(x uint) uint {
	var y uint
	//
	for i, row := range p.data {
		if bits.OnesCount64(row&uint64(x))&1 == 1 {
			y |= uint(1) << (p.rows - 1 - uint(i))
		}
	}
	//
	return y
}

// Table returns the truth table of the linear map described by this matrix.
func (p Matrix) Table() []uint {
	table := make([]uint, uint(1)<<p.cols)
	//
	for x := range table {
		table[x] = p.Apply(uint(x))
	}
	//
	return table
}

// Mul returns the product p*q, i.e. the matrix of x -> p(q(x)).
func (p Matrix) Mul(q Matrix) (Matrix, error) {
	if p.cols != q.rows {
		return Matrix{}, fmt.Errorf("cannot multiply %dx%d matrix by %dx%d matrix", p.rows, p.cols, q.rows, q.cols)
	}
	//
	r := New(p.rows, q.cols)
	//
	for i, row := range p.data {
		for k := uint(0); k < p.cols; k++ {
			if (row>>(p.cols-1-k))&1 == 1 {
				r.data[i] ^= q.data[k]
			}
		}
	}
	//
	return r, nil
}

// Rank computes the rank of this matrix using Gaussian elimination.
func (p Matrix) Rank() uint {
	rows := append([]uint64(nil), p.data...)
	rank := uint(0)
	//
	for col := uint(0); col < p.cols && rank < p.rows; col++ {
		mask := uint64(1) << (p.cols - 1 - col)
		pivot := findPivot(rows, rank, mask)
		//
		if pivot < 0 {
			continue
		}
		//
		rows[rank], rows[pivot] = rows[pivot], rows[rank]
		//
		for i := rank + 1; i < p.rows; i++ {
			if rows[i]&mask != 0 {
				rows[i] ^= rows[rank]
			}
		}
		//
		rank++
	}
	//
	return rank
}

// Inverse computes the inverse of this (square) matrix, using Gauss-Jordan
// elimination.
func (p Matrix) Inverse() (Matrix, error) {
	if p.rows != p.cols {
		return Matrix{}, fmt.Errorf("cannot invert %dx%d matrix", p.rows, p.cols)
	}
	//
	var (
		n     = p.rows
		left  = append([]uint64(nil), p.data...)
		right = Identity(n).data
	)
	//
	for col := uint(0); col < n; col++ {
		mask := uint64(1) << (n - 1 - col)
		pivot := findPivot(left, col, mask)
		//
		if pivot < 0 {
			return Matrix{}, ErrSingular
		}
		//
		left[col], left[pivot] = left[pivot], left[col]
		right[col], right[pivot] = right[pivot], right[col]
		//
		for i := uint(0); i < n; i++ {
			if i != col && left[i]&mask != 0 {
				left[i] ^= left[col]
				right[i] ^= right[col]
			}
		}
	}
	//
	return Matrix{n, n, right}, nil
}

// Order returns the multiplicative order of this (invertible) matrix, i.e. the
// smallest k > 0 such that p^k is the identity.
func (p Matrix) Order() (uint, error) {
	if p.rows != p.cols {
		return 0, fmt.Errorf("%dx%d matrix has no order", p.rows, p.cols)
	} else if p.Rank() != p.rows {
		return 0, ErrSingular
	}
	//
	var (
		id    = Identity(p.rows)
		power = p
		err   error
	)
	// Terminates since GL(n,2) is finite.
	for k := uint(1); ; k++ {
		if power.Equal(id) {
			return k, nil
		} else if power, err = power.Mul(p); err != nil {
			return 0, err
		}
	}
}

// Equal checks whether two matrices have the same dimensions and entries.
func (p Matrix) Equal(q Matrix) bool {
	if p.rows != q.rows || p.cols != q.cols {
		return false
	}
	//
	for i := range p.data {
		if p.data[i] != q.data[i] {
			return false
		}
	}
	//
	return true
}

// RowString returns the ith row of this matrix as a string of 0s and 1s.
func (p Matrix) RowString(i uint) string {
	var builder strings.Builder
	//
	for j := uint(0); j < p.cols; j++ {
		if p.Get(i, j) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	//
	return builder.String()
}

func (p Matrix) String() string {
	var builder strings.Builder
	//
	for i := uint(0); i < p.rows; i++ {
		if i != 0 {
			builder.WriteString("\n")
		}
		//
		builder.WriteString(p.RowString(i))
	}
	//
	return builder.String()
}

// Find the first row at or after start with the given bit set, or -1.
func findPivot(rows []uint64, start uint, mask uint64) int {
	for i := start; i < uint(len(rows)); i++ {
		if rows[i]&mask != 0 {
			return int(i)
		}
	}
	//
	return -1
}

func colMask(cols uint) uint64 {
	if cols == 64 {
		return ^uint64(0)
	}
	//
	return (uint64(1) << cols) - 1
}
