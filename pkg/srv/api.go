/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package srv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/qtomo/go-ats/pkg/acquire"
	"gitlab.com/qtomo/go-ats/pkg/config"
	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/log"
)

// AcquireRequest is the body of POST /api/acquire.
type AcquireRequest struct {
	SamplesPerRecord      int    `json:"samples_per_record"`
	RecordsPerBuffer      int    `json:"records_per_buffer"`
	BuffersPerAcquisition int    `json:"buffers_per_acquisition"`
	AllocatedBuffers      int    `json:"allocated_buffers"`
	ChannelSelection      string `json:"channel_selection"`
	BufferTimeoutMs       int    `json:"buffer_timeout_ms"`
	Output                string `json:"output,omitempty"`
}

// AcquireResponse summarizes one acquisition run. Trace data itself goes to
// the output file, never over the API.
type AcquireResponse struct {
	Buffers int    `json:"buffers"`
	Records int    `json:"records"`
	Partial bool   `json:"partial"`
	Error   string `json:"error,omitempty"`
	Output  string `json:"output,omitempty"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	ctrl *acquire.Controller
}

func NewApiServer(ctx context.Context, cfg *config.Config, ctrl *acquire.Controller) (*ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.Api.Address, cfg.Api.Port)
	return &ApiServer{
		Context: ctx,
		Config:  cfg,
		ctrl:    ctrl,
	}, nil
}

// Run starts the API server; it blocks until the listener fails.
func (s *ApiServer) Run() error {
	s.configureRouter()
	httpServer := &http.Server{
		Handler: s.Router,
		Addr:    fmt.Sprintf("%s:%d", s.Config.Api.Address, s.Config.Api.Port),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/params", s.handleParams()).Methods("GET")
	subRouter.HandleFunc("/abort", s.handleAbort()).Methods("GET")
	subRouter.HandleFunc("/acquire", s.handleAcquire()).Methods("POST")
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.ctrl.Status())
	}
}

func (s *ApiServer) handleParams() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes := s.ctrl.LastConfig()
		out := make(map[string]int, len(codes))
		for p, code := range codes {
			out[string(p)] = code
		}
		writeJSON(w, out)
	}
}

func (s *ApiServer) handleAbort() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling abort request")
		s.ctrl.Abort()
		writeJSON(w, s.ctrl.Status())
	}
}

func (s *ApiServer) handleAcquire() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &AcquireRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		selection, err := demux.SelectionByName(req.ChannelSelection)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p := acquire.Params{
			SamplesPerRecord:      req.SamplesPerRecord,
			RecordsPerBuffer:      req.RecordsPerBuffer,
			BuffersPerAcquisition: req.BuffersPerAcquisition,
			AllocatedBuffers:      req.AllocatedBuffers,
			Selection:             selection,
			BufferTimeout:         time.Duration(req.BufferTimeoutMs) * time.Millisecond,
		}
		if err := s.ctrl.SetAcquisitionParams(p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Debug("Handling acquire request: samples: %d records: %d buffers: %d",
			req.SamplesPerRecord, req.RecordsPerBuffer, req.BuffersPerAcquisition)
		res, runErr := s.ctrl.RunAcquisition()
		resp := &AcquireResponse{}
		if res != nil {
			resp.Buffers = res.Buffers
			resp.Records = res.Records
			resp.Partial = res.Partial
		}
		if runErr != nil {
			resp.Error = runErr.Error()
		}
		if res != nil && req.Output != "" {
			if err := acquire.WriteResult(req.Output, res); err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			resp.Output = req.Output
		}
		if runErr != nil {
			w.WriteHeader(http.StatusBadGateway)
		}
		writeJSON(w, resp)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Can not encode response: %s", err)
	}
}
