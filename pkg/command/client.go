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

package command

import (
	"errors"
	"fmt"

	"github.com/imroc/req"

	"gitlab.com/qtomo/go-ats/pkg/acquire"
	"gitlab.com/qtomo/go-ats/pkg/config"
	"gitlab.com/qtomo/go-ats/pkg/srv"
)

// ApiClient talks to a running go-ats daemon.
type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Api.Address, cfg.Api.Port),
	}
}

// Status fetches the engine state and buffer counters.
func (c *ApiClient) Status() (*acquire.Status, error) {
	r, err := req.Get(fmt.Sprintf("%s/status", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	status := &acquire.Status{}
	if err = r.ToJSON(status); err != nil {
		return nil, err
	}
	return status, nil
}

// Params fetches the last configuration applied to the board.
func (c *ApiClient) Params() (map[string]int, error) {
	r, err := req.Get(fmt.Sprintf("%s/params", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if r.Response().StatusCode != 200 {
		return nil, errors.New(r.Response().Status)
	}
	codes := make(map[string]int)
	if err = r.ToJSON(&codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Abort requests an abort of the running acquisition.
func (c *ApiClient) Abort() error {
	r, err := req.Get(fmt.Sprintf("%s/abort", c.ApiPrefix))
	if err != nil {
		return err
	}
	if r.Response().StatusCode != 200 {
		return errors.New(r.Response().Status)
	}
	return nil
}

// Acquire runs one acquisition on the daemon and returns its summary.
func (c *ApiClient) Acquire(request *srv.AcquireRequest) (*srv.AcquireResponse, error) {
	r, err := req.Post(fmt.Sprintf("%s/acquire", c.ApiPrefix), req.BodyJSON(request))
	if err != nil {
		return nil, err
	}
	resp := &srv.AcquireResponse{}
	if err = r.ToJSON(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
