// Copyright 2016 The go-probeum Authors
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

// Package log is the process-wide operational logger used by the driver
// and cmd tooling. core/vm never imports it: a frame's tracer is always
// injected, never looked up from package-level state.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

type Lvl int

const (
	LvlError Lvl = iota
	LvlWarn
	LvlInfo
	LvlDebug
)

func (l Lvl) String() string {
	switch l {
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN "
	case LvlInfo:
		return "INFO "
	case LvlDebug:
		return "DEBUG"
	default:
		return "?????"
	}
}

var lvlColor = map[Lvl]*color.Color{
	LvlError: color.New(color.FgRed, color.Bold),
	LvlWarn:  color.New(color.FgYellow),
	LvlInfo:  color.New(color.FgGreen),
	LvlDebug: color.New(color.FgCyan),
}

// Logger is a minimal leveled, context-bearing logger. Child loggers
// inherit ctx and append to it, so subsystem names compose:
// root.New("module", "vm").New("frame", depth).
type Logger struct {
	mu     *sync.Mutex
	out    io.Writer
	ctx    []interface{}
	level  Lvl
	color  bool
	caller bool
}

// Root is the process-wide default, writing to a colorable stderr when
// attached to a terminal.
var Root = New()

func New(ctx ...interface{}) *Logger {
	isTerm := isatty.IsTerminal(os.Stderr.Fd())
	return &Logger{
		mu:     new(sync.Mutex),
		out:    colorable.NewColorable(os.Stderr),
		ctx:    ctx,
		level:  LvlInfo,
		color:  isTerm,
		caller: true,
	}
}

// SetLevel sets the minimum level the logger emits.
func (l *Logger) SetLevel(lvl Lvl) { l.level = lvl }

// New returns a child logger with additional key/value context appended.
func (l *Logger) New(ctx ...interface{}) *Logger {
	child := *l
	child.ctx = append(append([]interface{}{}, l.ctx...), ctx...)
	return &child
}

func (l *Logger) log(lvl Lvl, msg string, ctx []interface{}) {
	if lvl > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("15:04:05.000")
	prefix := fmt.Sprintf("%s[%s]", ts, lvl)
	if l.color {
		if c, ok := lvlColor[lvl]; ok {
			prefix = c.Sprintf("%s[%s]", ts, lvl)
		}
	}
	line := fmt.Sprintf("%s %s", prefix, msg)
	all := append(append([]interface{}{}, l.ctx...), ctx...)
	for i := 0; i+1 < len(all); i += 2 {
		line += fmt.Sprintf(" %v=%v", all[i], all[i+1])
	}
	if l.caller {
		if call := stack.Caller(2); call != nil {
			line += fmt.Sprintf(" caller=%n:%d", call, call)
		}
	}
	fmt.Fprintln(l.out, line)
}

func (l *Logger) Error(msg string, ctx ...interface{}) { l.log(LvlError, msg, ctx) }
func (l *Logger) Warn(msg string, ctx ...interface{})  { l.log(LvlWarn, msg, ctx) }
func (l *Logger) Info(msg string, ctx ...interface{})  { l.log(LvlInfo, msg, ctx) }
func (l *Logger) Debug(msg string, ctx ...interface{}) { l.log(LvlDebug, msg, ctx) }

func Error(msg string, ctx ...interface{}) { Root.Error(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root.Warn(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root.Info(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root.Debug(msg, ctx...) }
