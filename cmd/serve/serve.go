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

package serve

import (
	"context"

	"github.com/spf13/cobra"

	"gitlab.com/qtomo/go-ats/pkg/acquire"
	"gitlab.com/qtomo/go-ats/pkg/config"
	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device"
	"gitlab.com/qtomo/go-ats/pkg/device/sim"
	"gitlab.com/qtomo/go-ats/pkg/srv"
	"gitlab.com/qtomo/go-ats/pkg/state"
)

const (
	AddressOptionName  = "address"
	PortOptionName     = "port"
	SimulateOptionName = "simulate"
)

// NewCommand creates the serve command, which runs the acquisition API
// server against the configured board.
func NewCommand() *cobra.Command {
	var address string
	var port int
	var simulate bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the acquisition API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Api.Address = address
			}
			if port != 0 {
				cfg.Api.Port = port
			}
			if simulate {
				cfg.Board.Simulate = true
			}

			info, err := device.BoardByModel(cfg.Board.Model)
			if err != nil {
				return err
			}
			if !cfg.Board.Simulate {
				return device.ErrNoBackend{Model: cfg.Board.Model}
			}
			dmx, err := demux.ByName(cfg.Acquisition.Strategy)
			if err != nil {
				return err
			}
			cache, err := state.NewConfigState(cfg.StatePath)
			if err != nil {
				return err
			}
			defer cache.Close()

			ctrl := acquire.NewController(sim.NewBoard(info), dmx, cache)
			if err := ctrl.Configure(cfg.BuildSession); err != nil {
				return err
			}

			server, err := srv.NewApiServer(context.Background(), cfg, ctrl)
			if err != nil {
				return err
			}
			return server.Run()
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", "Address to bind. E.g. 127.0.0.1")
	cmd.Flags().IntVar(&port, PortOptionName, 0, "Port number to bind. E.g. 8000")
	cmd.Flags().BoolVar(&simulate, SimulateOptionName, false, "Use the simulated board instead of hardware")
	return cmd
}
