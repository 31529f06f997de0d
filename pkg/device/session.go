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

package device

import (
	"gitlab.com/qtomo/go-ats/pkg/device/ifc"
	"gitlab.com/qtomo/go-ats/pkg/log"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

// Session buffers parameter assignments for one configuration scope. Nothing
// reaches the board until Commit; values are validated against the schema
// and written in the fixed dependency order of params.CommitOrder.
//
// The board has no transactional configuration, so a write failure mid-commit
// leaves the already-applied writes in place. Commit stops at the first
// failure and reports it; callers must treat a failed commit as
// at-least-partially applied.
type Session struct {
	pending map[params.Param]interface{}
}

func NewSession() *Session {
	return &Session{
		pending: make(map[params.Param]interface{}),
	}
}

// Set buffers an assignment. Only the parameter name is checked here; the
// value is validated at commit time together with the rest of the session.
func (s *Session) Set(p params.Param, value interface{}) error {
	if _, ok := params.Schema[p]; !ok {
		return params.ErrUnknownParam{Param: p}
	}
	s.pending[p] = value
	return nil
}

// Resolve validates every buffered assignment and returns the hardware codes.
func (s *Session) Resolve() (map[params.Param]int, error) {
	codes := make(map[params.Param]int, len(s.pending))
	for p, value := range s.pending {
		code, err := params.Schema[p].Code(value)
		if err != nil {
			return nil, ErrConfiguration{Param: p, Cause: err}
		}
		codes[p] = code
	}
	return codes, nil
}

// Commit validates the session and issues the writes to the board in
// dependency order. It returns the applied codes so they can be cached for
// diagnostics. On a write failure no further writes are attempted.
func (s *Session) Commit(dev ifc.Device) (map[params.Param]int, error) {
	codes, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	applied := make(map[params.Param]int, len(codes))
	for _, p := range params.CommitOrder {
		code, ok := codes[p]
		if !ok {
			continue
		}
		log.Debug("Writing parameter: %s code: %d", p, code)
		if err := dev.SetParam(p, code); err != nil {
			return applied, ErrConfiguration{Param: p, Cause: err}
		}
		applied[p] = code
	}
	return applied, nil
}
