// Copyright 2017 The go-probeum Authors
// This file is part of go-probeum.
//
// go-probeum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-probeum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-probeum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"errors"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// tomlSettings mirrors go-probeum's own node-config decoder: TOML keys
// use the same names as the Go struct fields, and an unknown field is a
// hard error rather than silently ignored.
var tomlSettings = toml.Config{
	NormFieldName: func(_ reflect.Type, key string) string { return key },
	FieldToKey:    func(_ reflect.Type, field string) string { return field },
}

// runConfig is the small set of runtime.Config fields a user may want
// to override from a file instead of flags: gas/drop limits and the
// value sent with the synthetic deploy transaction.
type runConfig struct {
	DropLimit uint64 `toml:",omitempty"`
	Value     uint64 `toml:",omitempty"`
	Coinbase  string `toml:",omitempty"`
}

func loadRunConfig(path string) (runConfig, error) {
	var cfg runConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return cfg, err
}
