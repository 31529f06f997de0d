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

package config

import (
	"time"

	"gitlab.com/qtomo/go-ats/pkg/acquire"
	"gitlab.com/qtomo/go-ats/pkg/demux"
	"gitlab.com/qtomo/go-ats/pkg/device"
	"gitlab.com/qtomo/go-ats/pkg/params"
)

// SetPath points the config at a non-default file location.
func (c *Config) SetPath(path string) {
	c.filepath = path
}

// BuildSession buffers the full board configuration from the config file
// into a configuration session.
func (c *Config) BuildSession(s *device.Session) error {
	assignments := []struct {
		param params.Param
		value interface{}
	}{
		{params.ClockSource, c.Clock.Source},
		{params.SampleRate, c.Clock.SampleRate},
		{params.ClockEdge, c.Clock.Edge},
		{params.Decimation, c.Clock.Decimation},

		{params.TriggerOperation, c.Trigger.Operation},
		{params.TriggerEngine1, "TRIG_ENGINE_J"},
		{params.TriggerSource1, c.Trigger.Source1},
		{params.TriggerSlope1, c.Trigger.Slope1},
		{params.TriggerLevel1, c.Trigger.Level1},
		{params.TriggerEngine2, "TRIG_ENGINE_K"},
		{params.TriggerSource2, c.Trigger.Source2},
		{params.TriggerSlope2, c.Trigger.Slope2},
		{params.TriggerLevel2, c.Trigger.Level2},
		{params.ExternalTriggerCoupling, c.Trigger.ExternalCoupling},
		{params.ExternalTriggerRange, c.Trigger.ExternalRange},
		{params.TriggerDelay, c.Trigger.Delay},
		{params.TimeoutTicks, c.Trigger.TimeoutTicks},

		{params.Coupling1, c.ChannelA.Coupling},
		{params.ChannelRange1, c.ChannelA.Range},
		{params.Impedance1, c.ChannelA.Impedance},
		{params.Coupling2, c.ChannelB.Coupling},
		{params.ChannelRange2, c.ChannelB.Range},
		{params.Impedance2, c.ChannelB.Impedance},

		{params.Mode, "NPT"},
		{params.ChannelSelection, c.Acquisition.ChannelSelection},
		{params.ExternalStartCapture, "ENABLED"},
	}
	for _, a := range assignments {
		if err := s.Set(a.param, a.value); err != nil {
			return err
		}
	}
	return nil
}

// AcquisitionParams converts the config file acquisition block into run
// parameters.
func (c *Config) AcquisitionParams() (acquire.Params, error) {
	selection, err := demux.SelectionByName(c.Acquisition.ChannelSelection)
	if err != nil {
		return acquire.Params{}, err
	}
	return acquire.Params{
		SamplesPerRecord:      c.Acquisition.SamplesPerRecord,
		RecordsPerBuffer:      c.Acquisition.RecordsPerBuffer,
		BuffersPerAcquisition: c.Acquisition.BuffersPerAcquisition,
		AllocatedBuffers:      c.Acquisition.AllocatedBuffers,
		Selection:             selection,
		BufferTimeout:         time.Duration(c.Acquisition.BufferTimeoutMs) * time.Millisecond,
	}, nil
}
