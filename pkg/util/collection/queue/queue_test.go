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
package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Queue_01(t *testing.T) {
	q := NewQueue[uint]()
	assert.True(t, q.IsEmpty())
	//
	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, uint(3), q.Len())
	assert.Equal(t, uint(2), q.Peek(1))
	assert.Equal(t, uint(1), q.Pop())
	assert.Equal(t, uint(2), q.Pop())
	q.Push(4)
	assert.Equal(t, uint(3), q.Pop())
	assert.Equal(t, uint(4), q.Pop())
	assert.True(t, q.IsEmpty())
}

func Test_Queue_02(t *testing.T) {
	q := NewQueue[int]()
	next := 0
	// Interleave pushes and pops to exercise prefix reclamation
	for i := 0; i < 1000; i++ {
		q.Push(2 * i)
		q.Push(2*i + 1)
		assert.Equal(t, next, q.Pop())
		next++
	}
	//
	for !q.IsEmpty() {
		assert.Equal(t, next, q.Pop())
		next++
	}
	//
	assert.Equal(t, 2000, next)
}

func Test_Queue_03(t *testing.T) {
	q := NewQueue[string]()
	q.Push("a")
	q.Clear()
	assert.True(t, q.IsEmpty())
	assert.Panics(t, func() { q.Pop() })
}
