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

// Package server exposes dropvm over HTTP for tools that would rather
// talk JSON than spawn a CLI process: a POST /execute endpoint that
// runs code to completion, and a GET /trace websocket that streams one
// message per executed opcode as it happens.
package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/probeum/dropvm/core/vm"
	"github.com/probeum/dropvm/core/vm/runtime"
	"github.com/probeum/dropvm/log"
)

// Server is an http.Handler wrapping a shared StateDB: every /execute
// and /trace request runs against the same world state, so a deploy
// from one request is callable from the next.
type Server struct {
	router   *httprouter.Router
	state    vm.StateDB
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// New builds a Server backed by state. A nil state gets a fresh
// in-memory one via runtime.NewMemoryStateDB.
func New(state vm.StateDB) *Server {
	if state == nil {
		db, _ := runtime.NewMemoryStateDB(0, "")
		state = db
	}
	s := &Server{
		router: httprouter.New(),
		state:  state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: log.New("module", "dropvm/server"),
	}
	s.router.POST("/execute", s.handleExecute)
	s.router.GET("/trace", s.handleTrace)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

type executeRequest struct {
	Code      string `json:"code"`
	Input     string `json:"input"`
	DropLimit uint64 `json:"dropLimit"`
}

type executeResponse struct {
	Address string `json:"address"`
	Return  string `json:"return"`
	Used    uint64 `json:"used"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	code, err := hex.DecodeString(trimHexPrefix(req.Code))
	if err != nil {
		http.Error(w, "bad code: "+err.Error(), http.StatusBadRequest)
		return
	}
	input, err := hex.DecodeString(trimHexPrefix(req.Input))
	if err != nil {
		http.Error(w, "bad input: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := &runtime.Config{State: s.state, DropLimit: req.DropLimit}
	res, runErr := runtime.Execute(code, input, cfg)

	resp := executeResponse{Address: res.Address.Hex(), Return: hex.EncodeToString(res.ReturnData), Used: res.DropsUsed}
	if runErr != nil {
		resp.Error = runErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// traceMessage is one websocket frame pushed per executed opcode.
type traceMessage struct {
	Session string `json:"session"`
	PC      uint64 `json:"pc"`
	Op      string `json:"op"`
	Drop    uint64 `json:"drop"`
	Depth   int    `json:"depth"`
	Fault   string `json:"fault,omitempty"`
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	var req executeRequest
	if err := conn.ReadJSON(&req); err != nil {
		return
	}
	code, err := hex.DecodeString(trimHexPrefix(req.Code))
	if err != nil {
		conn.WriteJSON(traceMessage{Fault: err.Error()})
		return
	}
	input, err := hex.DecodeString(trimHexPrefix(req.Input))
	if err != nil {
		conn.WriteJSON(traceMessage{Fault: err.Error()})
		return
	}

	session := uuid.New().String()
	var mu sync.Mutex
	send := func(msg traceMessage) {
		msg.Session = session
		mu.Lock()
		defer mu.Unlock()
		conn.WriteJSON(msg)
	}

	cfg := &runtime.Config{
		State:     s.state,
		DropLimit: req.DropLimit,
		EVMConfig: vm.Config{
			Tracer: vm.Tracer{
				OnStep: func(step vm.StepInfo) {
					send(traceMessage{PC: step.PC, Op: step.Op.String(), Drop: step.Drop, Depth: step.Depth})
				},
				OnFault: func(step vm.StepInfo, err error) {
					send(traceMessage{PC: step.PC, Drop: step.Drop, Depth: step.Depth, Fault: err.Error()})
				},
			},
		},
	}
	if _, err := runtime.Execute(code, input, cfg); err != nil {
		send(traceMessage{Fault: err.Error()})
	}
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
