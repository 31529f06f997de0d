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

package acquire

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/qtomo/go-ats/pkg/acquire"
	"gitlab.com/qtomo/go-ats/pkg/config"
	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device"
	"gitlab.com/qtomo/go-ats/pkg/device/sim"
	"gitlab.com/qtomo/go-ats/pkg/state"
)

const (
	SimulateOptionName = "simulate"
	SamplesOptionName  = "samples"
	RecordsOptionName  = "records"
	BuffersOptionName  = "buffers"
	AllocOptionName    = "alloc"
	ChannelsOptionName = "channels"
	TimeoutOptionName  = "timeout-ms"
	StrategyOptionName = "strategy"
	OutputOptionName   = "output"
)

// NewCommand creates the acquire command, which configures the board and
// runs one acquisition locally.
func NewCommand() *cobra.Command {
	var simulate bool
	var samples, records, buffers, alloc, timeoutMs int
	var channels, strategy, output string
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Configure the board and run one acquisition",
		RunE: func(cmd *cobra.Command, args []string) error {
			if simulate {
				cfg.Board.Simulate = true
			}
			if samples != 0 {
				cfg.Acquisition.SamplesPerRecord = samples
			}
			if records != 0 {
				cfg.Acquisition.RecordsPerBuffer = records
			}
			if cmd.Flags().Changed(BuffersOptionName) {
				cfg.Acquisition.BuffersPerAcquisition = buffers
			}
			if alloc != 0 {
				cfg.Acquisition.AllocatedBuffers = alloc
			}
			if channels != "" {
				cfg.Acquisition.ChannelSelection = channels
			}
			if timeoutMs != 0 {
				cfg.Acquisition.BufferTimeoutMs = timeoutMs
			}
			if strategy != "" {
				cfg.Acquisition.Strategy = strategy
			}

			ctrl, cache, err := buildController(cfg)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			if err := ctrl.Configure(cfg.BuildSession); err != nil {
				return err
			}
			p, err := cfg.AcquisitionParams()
			if err != nil {
				return err
			}
			if err := ctrl.SetAcquisitionParams(p); err != nil {
				return err
			}

			res, runErr := ctrl.RunAcquisition()
			if res != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "buffers: %d records: %d partial: %v\n",
					res.Buffers, res.Records, res.Partial)
				if output != "" {
					if err := acquire.WriteResult(output, res); err != nil {
						return err
					}
				}
			}
			return runErr
		},
	}
	cmd.Flags().BoolVar(&simulate, SimulateOptionName, false, "Use the simulated board instead of hardware")
	cmd.Flags().IntVar(&samples, SamplesOptionName, 0, "Samples per record. Multiple of 128, at least 256")
	cmd.Flags().IntVar(&records, RecordsOptionName, 0, "Records per buffer")
	cmd.Flags().IntVar(&buffers, BuffersOptionName, 0, "Buffers per acquisition. 0 streams until abort")
	cmd.Flags().IntVar(&alloc, AllocOptionName, 0, "Allocated buffers")
	cmd.Flags().StringVar(&channels, ChannelsOptionName, "", "Channel selection. One of A, B, AB")
	cmd.Flags().IntVar(&timeoutMs, TimeoutOptionName, 0, "Buffer timeout in milliseconds")
	cmd.Flags().StringVar(&strategy, StrategyOptionName, "", "Conversion strategy. One of vector, loop")
	cmd.Flags().StringVar(&output, OutputOptionName, "", "Write the acquired traces to this file")
	return cmd
}

func buildController(cfg *config.Config) (*acquire.Controller, *state.ConfigState, error) {
	info, err := device.BoardByModel(cfg.Board.Model)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Board.Simulate {
		return nil, nil, device.ErrNoBackend{Model: cfg.Board.Model}
	}
	dmx, err := demux.ByName(cfg.Acquisition.Strategy)
	if err != nil {
		return nil, nil, err
	}
	cache, err := state.NewConfigState(cfg.StatePath)
	if err != nil {
		return nil, nil, err
	}
	return acquire.NewController(sim.NewBoard(info), dmx, cache), cache, nil
}
