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

// Command dropvm loads bytecode, runs it against core/vm/runtime, and
// prints the return data — optionally re-running on every save with
// --watch, and printing a step trace with --trace.
package main

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rjeczalik/notify"
	"gopkg.in/urfave/cli.v1"

	"github.com/probeum/dropvm/cmd/dropvm/server"
	"github.com/probeum/dropvm/common"
	"github.com/probeum/dropvm/core/vm"
	"github.com/probeum/dropvm/core/vm/runtime"
	"github.com/probeum/dropvm/log"
)

var (
	codeFlag = cli.StringFlag{
		Name:  "code",
		Usage: "EVM-shaped bytecode as a hex string (0x-prefixed or not)",
	}
	codeFileFlag = cli.StringFlag{
		Name:  "codefile",
		Usage: "file containing hex-encoded bytecode",
	}
	inputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "hex-encoded calldata passed to the deployed contract",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML file overriding droplimit/value/coinbase",
	}
	dbFlag = cli.StringFlag{
		Name:  "db",
		Usage: "goleveldb directory persisting deployed code across runs",
	}
	droplimitFlag = cli.Uint64Flag{
		Name:  "droplimit",
		Usage: "drop budget for the run",
		Value: 10_000_000,
	}
	traceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "print a per-step execution table",
	}
	watchFlag = cli.BoolFlag{
		Name:  "watch",
		Usage: "re-run whenever --codefile changes",
	}
	serveFlag = cli.StringFlag{
		Name:  "serve",
		Usage: "instead of running once, listen on this address and serve /execute and /trace",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "dropvm"
	app.Usage = "run standalone drop-denominated bytecode"
	app.Flags = []cli.Flag{
		codeFlag, codeFileFlag, inputFlag, configFlag, dbFlag,
		droplimitFlag, traceFlag, watchFlag, serveFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Error("dropvm failed", "err", err)
		os.Exit(1)
	}
}

func loadCode(ctx *cli.Context) ([]byte, error) {
	var hexCode string
	switch {
	case ctx.IsSet(codeFlag.Name):
		hexCode = ctx.String(codeFlag.Name)
	case ctx.IsSet(codeFileFlag.Name):
		raw, err := ioutil.ReadFile(ctx.String(codeFileFlag.Name))
		if err != nil {
			return nil, err
		}
		hexCode = string(raw)
	default:
		return nil, fmt.Errorf("one of --code or --codefile is required")
	}
	hexCode = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hexCode), "0x"))
	return hex.DecodeString(hexCode)
}

func run(ctx *cli.Context) error {
	if addr := ctx.String(serveFlag.Name); addr != "" {
		var state vm.StateDB
		if dbPath := ctx.String(dbFlag.Name); dbPath != "" {
			db, err := runtime.NewMemoryStateDB(0, dbPath)
			if err != nil {
				return fmt.Errorf("opening --db: %w", err)
			}
			defer db.Close()
			state = db
		}
		log.Info("serving dropvm", "addr", addr)
		return http.ListenAndServe(addr, server.New(state))
	}

	code, err := loadCode(ctx)
	if err != nil {
		return err
	}

	input, err := hex.DecodeString(strings.TrimPrefix(ctx.String(inputFlag.Name), "0x"))
	if err != nil {
		return fmt.Errorf("decoding --input: %w", err)
	}

	cfg := &runtime.Config{DropLimit: ctx.Uint64(droplimitFlag.Name)}

	if path := ctx.String(configFlag.Name); path != "" {
		rc, err := loadRunConfig(path)
		if err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
		if rc.DropLimit != 0 {
			cfg.DropLimit = rc.DropLimit
		}
		if rc.Value != 0 {
			cfg.Value = new(vm.Word).SetUint64(rc.Value)
		}
		if rc.Coinbase != "" {
			cfg.Coinbase = common.HexToAddress(rc.Coinbase)
		}
	}

	if dbPath := ctx.String(dbFlag.Name); dbPath != "" {
		state, err := runtime.NewMemoryStateDB(0, dbPath)
		if err != nil {
			return fmt.Errorf("opening --db: %w", err)
		}
		defer state.Close()
		cfg.State = state
	}

	var tracer *stepTracer
	if ctx.Bool(traceFlag.Name) {
		tracer = newStepTracer()
		cfg.EVMConfig = vm.Config{Tracer: tracer.vmTracer()}
	}

	execute := func() error {
		if tracer != nil {
			tracer.reset()
		}
		res, err := runtime.Execute(code, input, cfg)
		if tracer != nil {
			tracer.print()
		}
		fmt.Printf("address: %s\n", res.Address.Hex())
		fmt.Printf("drops used: %d\n", res.DropsUsed)
		fmt.Printf("return: 0x%s\n", hex.EncodeToString(res.ReturnData))
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
		return nil
	}

	if err := execute(); err != nil {
		return err
	}
	if !ctx.Bool(watchFlag.Name) || !ctx.IsSet(codeFileFlag.Name) {
		return nil
	}
	return watch(ctx.String(codeFileFlag.Name), func() error {
		reloaded, err := loadCode(ctx)
		if err != nil {
			return err
		}
		code = reloaded
		return execute()
	})
}

// watch re-invokes fn every time the file at path changes.
func watch(path string, fn func() error) error {
	events := make(chan notify.EventInfo, 1)
	if err := notify.Watch(filepath.Clean(path), events, notify.Write); err != nil {
		return err
	}
	defer notify.Stop(events)

	log.Info("watching for changes", "file", path)
	for range events {
		if err := fn(); err != nil {
			log.Error("run failed", "err", err)
		}
	}
	return nil
}
