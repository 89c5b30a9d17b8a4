// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package common holds the small, dependency-free value types shared by
// every other package: fixed-size addresses and hashes.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash is an arbitrary 32 byte word.
type Hash [HashLength]byte

// BytesToHash sets h to the value of b, left-padding if b is short.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func BigToHash(b *uint256.Int) Hash { return BytesToHash(b.Bytes()) }

func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte  { return h[:] }
func (h Hash) Big() *uint256.Int {
	return new(uint256.Int).SetBytes(h[:])
}
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Address represents the 20 byte address of an account.
type Address [AddressLength]byte

// BytesToAddress sets a to the last 20 bytes of b.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func BigToAddress(b *uint256.Int) Address { return BytesToAddress(b.Bytes()) }

// HexToAddress decodes s, tolerating an optional "0x" prefix, and
// returns the resulting Address. Malformed input decodes to the zero
// address; well-formed input gets BytesToAddress's left-pad/keep-last-20
// leniency.
func HexToAddress(s string) Address {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}
	}
	return BytesToAddress(b)
}

func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }
func (a Address) Hash() Hash    { return BytesToHash(a[:]) }
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex returns the hex representation without the 0x prefix, useful for
// log fields and cache keys.
func (a Address) Hex() string { return hex.EncodeToString(a[:]) }

// GoStringer-ish helper for error messages and tracer hints.
func (h Hash) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%s", h.String())
}
