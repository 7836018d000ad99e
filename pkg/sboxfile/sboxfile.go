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
package sboxfile

import (
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Entry is the on-disk form of a single named S-box.  Either size may be
// omitted (or zero), in which case it is inferred from the table.
type Entry struct {
	Name    string  `toml:"name"`
	Table   []int64 `toml:"table"`
	InBits  uint    `toml:"in_bits,omitempty"`
	OutBits uint    `toml:"out_bits,omitempty"`
}

// File is the on-disk form of an S-box file, which holds a list of [[sbox]]
// entries.
type File struct {
	SBoxes []Entry `toml:"sbox"`
}

// Named associates an S-box with the name it was given in a file.
type Named struct {
	Name string
	SBox *sbox.SBox
}

// Load reads and validates the S-box file at the given path.
func Load(path string) ([]Named, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	//
	defer f.Close()
	//
	return Read(f, path)
}

// Read decodes and validates an S-box file from a given reader.  The filename
// is used only for error reporting.  All problems found in the file are
// reported together.
func Read(r io.Reader, filename string) ([]Named, error) {
	var (
		file   File
		result *multierror.Error
		named  []Named
		seen   = make(map[string]bool)
	)
	//
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", filename)
	}
	//
	for _, key := range md.Undecoded() {
		result = multierror.Append(result, fmt.Errorf("unknown key %q", key.String()))
	}
	//
	for i, entry := range file.SBoxes {
		if entry.Name == "" {
			result = multierror.Append(result, fmt.Errorf("s-box #%d has no name", i+1))
			continue
		} else if seen[entry.Name] {
			result = multierror.Append(result, fmt.Errorf("s-box %q defined more than once", entry.Name))
			continue
		}
		//
		seen[entry.Name] = true
		//
		s, err := entry.toSBox()
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "s-box %q", entry.Name))
			continue
		}
		//
		named = append(named, Named{entry.Name, s})
	}
	//
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrapf(err, "invalid s-box file %s", filename)
	}
	//
	return named, nil
}

// Write encodes a list of named S-boxes in the file format accepted by Read.
func Write(w io.Writer, boxes []Named) error {
	var file File
	//
	for _, n := range boxes {
		table := make([]int64, n.SBox.Size())
		//
		for x := range table {
			table[x] = int64(n.SBox.Apply(uint(x)))
		}
		//
		file.SBoxes = append(file.SBoxes, Entry{n.Name, table, n.SBox.InBits(), n.SBox.OutBits()})
	}
	//
	return toml.NewEncoder(w).Encode(file)
}

// Lookup finds the S-box with the given name.
func Lookup(boxes []Named, name string) (*sbox.SBox, error) {
	for _, n := range boxes {
		if n.Name == name {
			return n.SBox, nil
		}
	}
	//
	return nil, fmt.Errorf("unknown s-box %q", name)
}

func (p Entry) toSBox() (*sbox.SBox, error) {
	n := uint(len(p.Table))
	table := make([]uint, n)
	//
	for x, y := range p.Table {
		if y < 0 {
			return nil, fmt.Errorf("negative value %d at input %d", y, x)
		}
		//
		table[x] = uint(y)
	}
	//
	if p.InBits != 0 && (p.InBits > sbox.MaxBits || n != uint(1)<<p.InBits) {
		return nil, fmt.Errorf("table has %d entries, but in_bits is %d", n, p.InBits)
	} else if p.OutBits == 0 {
		return sbox.FromTable(table)
	} else if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("table length %d is not a power of two", n)
	}
	//
	return sbox.New(table, uint(bits.TrailingZeros(n)), p.OutBits)
}
