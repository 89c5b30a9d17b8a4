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
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/probeum/dropvm/core/vm"
)

// stepTracer collects one row per executed opcode and renders it as a
// table on demand — the --trace flag's sink for the Tracer callbacks
// core/vm already accepts, never a replacement for them.
type stepTracer struct {
	rows [][]string
}

func newStepTracer() *stepTracer { return &stepTracer{} }

func (t *stepTracer) vmTracer() vm.Tracer {
	return vm.Tracer{
		OnStep: func(step vm.StepInfo) {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", step.PC),
				step.Op.String(),
				fmt.Sprintf("%d", step.Drop),
				fmt.Sprintf("%d", step.Depth),
				fmt.Sprintf("%d", step.StackLen),
				fmt.Sprintf("%d", step.MemSize),
			})
		},
		OnFault: func(step vm.StepInfo, err error) {
			t.rows = append(t.rows, []string{
				fmt.Sprintf("%d", step.PC), "FAULT",
				fmt.Sprintf("%d", step.Drop),
				fmt.Sprintf("%d", step.Depth),
				"-", err.Error(),
			})
		},
	}
}

func (t *stepTracer) print() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"pc", "op", "drop", "depth", "stack", "mem"})
	table.AppendBulk(t.rows)
	table.Render()
}

func (t *stepTracer) reset() { t.rows = nil }
