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
	"io/ioutil"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type ApiConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

type BoardConfig struct {
	Model    string `yaml:"model"`
	Simulate bool   `yaml:"simulate"`
}

type ClockConfig struct {
	Source     string `yaml:"source"`
	SampleRate int    `yaml:"sample_rate"`
	Edge       string `yaml:"edge"`
	Decimation int    `yaml:"decimation"`
}

type TriggerConfig struct {
	Operation        string `yaml:"operation"`
	Source1          string `yaml:"source1"`
	Slope1           string `yaml:"slope1"`
	Level1           int    `yaml:"level1"`
	Source2          string `yaml:"source2"`
	Slope2           string `yaml:"slope2"`
	Level2           int    `yaml:"level2"`
	Delay            int    `yaml:"delay"`
	ExternalCoupling string `yaml:"external_coupling"`
	ExternalRange    string `yaml:"external_range"`
	TimeoutTicks     int    `yaml:"timeout_ticks"`
}

type ChannelConfig struct {
	Coupling  string  `yaml:"coupling"`
	Range     float64 `yaml:"range"`
	Impedance int     `yaml:"impedance"`
}

type AcquisitionConfig struct {
	SamplesPerRecord      int    `yaml:"samples_per_record"`
	RecordsPerBuffer      int    `yaml:"records_per_buffer"`
	BuffersPerAcquisition int    `yaml:"buffers_per_acquisition"`
	AllocatedBuffers      int    `yaml:"allocated_buffers"`
	ChannelSelection      string `yaml:"channel_selection"`
	BufferTimeoutMs       int    `yaml:"buffer_timeout_ms"`
	Strategy              string `yaml:"strategy"`
}

type Config struct {
	LogLevel    string             `yaml:"log_level"`
	StatePath   string             `yaml:"state_path"`
	Api         *ApiConfig         `yaml:"api"`
	Board       *BoardConfig       `yaml:"board"`
	Clock       *ClockConfig       `yaml:"clock"`
	Trigger     *TriggerConfig     `yaml:"trigger"`
	ChannelA    *ChannelConfig     `yaml:"channel_a"`
	ChannelB    *ChannelConfig     `yaml:"channel_b"`
	Acquisition *AcquisitionConfig `yaml:"acquisition"`
	filepath    string
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// Load reads the config file over the defaults. A missing file is not an
// error; the defaults stand.
func (c *Config) Load() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, StateFile)
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		StatePath: DefaultStatePath(),
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		Board: &BoardConfig{
			Model:    DefaultBoardModel,
			Simulate: false,
		},
		Clock: &ClockConfig{
			Source:     DefaultClockSource,
			SampleRate: DefaultSampleRate,
			Edge:       DefaultClockEdge,
			Decimation: DefaultDecimation,
		},
		Trigger: &TriggerConfig{
			Operation:        DefaultTriggerOperation,
			Source1:          DefaultTriggerSource1,
			Slope1:           DefaultTriggerSlope,
			Level1:           DefaultTriggerLevel,
			Source2:          DefaultTriggerSource2,
			Slope2:           DefaultTriggerSlope,
			Level2:           DefaultTriggerLevel,
			Delay:            DefaultTriggerDelay,
			ExternalCoupling: DefaultExtTrigCoupling,
			ExternalRange:    DefaultExtTrigRange,
			TimeoutTicks:     DefaultTimeoutTicks,
		},
		ChannelA: &ChannelConfig{
			Coupling:  DefaultCoupling,
			Range:     DefaultChannelRange,
			Impedance: DefaultImpedance,
		},
		ChannelB: &ChannelConfig{
			Coupling:  DefaultCoupling,
			Range:     DefaultChannelRange,
			Impedance: DefaultImpedance,
		},
		Acquisition: &AcquisitionConfig{
			SamplesPerRecord:      DefaultSamplesPerRecord,
			RecordsPerBuffer:      DefaultRecordsPerBuffer,
			BuffersPerAcquisition: DefaultBuffersPerAcquisition,
			AllocatedBuffers:      DefaultAllocatedBuffers,
			ChannelSelection:      DefaultChannelSelection,
			BufferTimeoutMs:       DefaultBufferTimeoutMs,
			Strategy:              DefaultStrategy,
		},
		filepath: DefaultConfigPath(),
	}
}
