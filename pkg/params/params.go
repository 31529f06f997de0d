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

package params

import (
	"fmt"
)

// Param is the name of a board parameter. The set of parameters is closed:
// every parameter the card accepts is listed here together with its legal
// values, so a write can be validated before it reaches the hardware.
type Param string

const (
	ClockSource        Param = "clock_source"
	SampleRate         Param = "sample_rate"
	ExternalSampleRate Param = "external_sample_rate"
	ClockEdge          Param = "clock_edge"
	Decimation         Param = "decimation"

	TriggerOperation        Param = "trigger_operation"
	TriggerEngine1          Param = "trigger_engine1"
	TriggerSource1          Param = "trigger_source1"
	TriggerSlope1           Param = "trigger_slope1"
	TriggerLevel1           Param = "trigger_level1"
	TriggerEngine2          Param = "trigger_engine2"
	TriggerSource2          Param = "trigger_source2"
	TriggerSlope2           Param = "trigger_slope2"
	TriggerLevel2           Param = "trigger_level2"
	ExternalTriggerCoupling Param = "external_trigger_coupling"
	ExternalTriggerRange    Param = "external_trigger_range"
	TriggerDelay            Param = "trigger_delay"
	TriggerHoldoff          Param = "trigger_holdoff"
	TimeoutTicks            Param = "timeout_ticks"

	Coupling1     Param = "coupling1"
	ChannelRange1 Param = "channel_range1"
	Impedance1    Param = "impedance1"
	Coupling2     Param = "coupling2"
	ChannelRange2 Param = "channel_range2"
	Impedance2    Param = "impedance2"

	AuxIOMode            Param = "aux_io_mode"
	AuxIOParam           Param = "aux_io_param"
	Mode                 Param = "mode"
	ChannelSelection     Param = "channel_selection"
	TransferOffset       Param = "transfer_offset"
	ExternalStartCapture Param = "external_startcapture"
	EnableRecordHeaders  Param = "enable_record_headers"
	AllocBuffers         Param = "alloc_buffers"
	FifoOnlyStreaming    Param = "fifo_only_streaming"
	InterleaveSamples    Param = "interleave_samples"
	GetProcessedData     Param = "get_processed_data"
	AllocatedBuffers     Param = "allocated_buffers"
	BufferTimeout        Param = "buffer_timeout"
)

// ValueSpec describes the legal values of one parameter. A parameter is
// either enumerated (Enum maps the user-facing value to the hardware code),
// numeric (the value itself is the code, bounded by Min/Max and optionally
// constrained to multiples of Divisor), or both. Max == 0 means no upper
// bound for numeric parameters.
type ValueSpec struct {
	Enum    map[string]int
	Numeric bool
	Min     int
	Max     int
	Divisor int
}

// Code resolves a user-facing value to the hardware code, validating it
// against the legal-value set.
func (s ValueSpec) Code(value interface{}) (int, error) {
	if s.Enum != nil {
		if code, ok := s.Enum[fmt.Sprint(value)]; ok {
			return code, nil
		}
	}
	if s.Numeric {
		v, ok := toInt(value)
		if !ok {
			return 0, ErrIllegalValue{Value: value}
		}
		if v < s.Min {
			return 0, ErrIllegalValue{Value: value}
		}
		if s.Max != 0 && v > s.Max {
			return 0, ErrIllegalValue{Value: value}
		}
		if s.Divisor != 0 && v%s.Divisor != 0 {
			return 0, ErrIllegalValue{Value: value}
		}
		return v, nil
	}
	return 0, ErrIllegalValue{Value: value}
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

var engineFlags = map[string]int{"DISABLED": 0x0, "ENABLED": 0x1}
var couplings = map[string]int{"AC": 1, "DC": 2}

// Schema is the closed parameter schema of the ATS9371 board. Codes follow
// the ATS SDK value tables.
var Schema = map[Param]ValueSpec{
	ClockSource: {Enum: map[string]int{
		"INTERNAL_CLOCK":           1,
		"FAST_EXTERNAL_CLOCK":      2,
		"EXTERNAL_CLOCK_10MHz_REF": 7,
	}},
	SampleRate: {Enum: map[string]int{
		"1000":           1,
		"2000":           2,
		"5000":           4,
		"10000":          8,
		"20000":          10,
		"50000":          12,
		"100000":         14,
		"200000":         16,
		"500000":         18,
		"1000000":        20,
		"2000000":        24,
		"5000000":        26,
		"10000000":       28,
		"20000000":       30,
		"25000000":       33,
		"50000000":       34,
		"100000000":      36,
		"125000000":      37,
		"160000000":      38,
		"180000000":      39,
		"200000000":      40,
		"250000000":      43,
		"500000000":      48,
		"800000000":      50,
		"1000000000":     53,
		"EXTERNAL_CLOCK": 64,
	}},
	ExternalSampleRate: {
		Enum:    map[string]int{"UNDEFINED": 0},
		Numeric: true,
		Min:     300000000,
		Max:     2000000000,
	},
	ClockEdge: {Enum: map[string]int{
		"CLOCK_EDGE_RISING":  0,
		"CLOCK_EDGE_FALLING": 1,
	}},
	Decimation: {Numeric: true, Min: 0, Max: 100000},

	TriggerOperation: {Enum: map[string]int{
		"TRIG_ENGINE_OP_J":           0,
		"TRIG_ENGINE_OP_K":           1,
		"TRIG_ENGINE_OP_J_OR_K":      2,
		"TRIG_ENGINE_OP_J_AND_K":     3,
		"TRIG_ENGINE_OP_J_XOR_K":     4,
		"TRIG_ENGINE_OP_J_AND_NOT_K": 5,
		"TRIG_ENGINE_OP_NOT_J_AND_K": 6,
	}},
	TriggerEngine1: {Enum: map[string]int{"TRIG_ENGINE_J": 0, "TRIG_ENGINE_K": 1}},
	TriggerEngine2: {Enum: map[string]int{"TRIG_ENGINE_J": 0, "TRIG_ENGINE_K": 1}},
	TriggerSource1: {Enum: map[string]int{
		"CHANNEL_A": 0, "CHANNEL_B": 1, "EXTERNAL": 2, "DISABLE": 3,
	}},
	TriggerSource2: {Enum: map[string]int{
		"CHANNEL_A": 0, "CHANNEL_B": 1, "EXTERNAL": 2, "DISABLE": 3,
	}},
	TriggerSlope1: {Enum: map[string]int{"TRIG_SLOPE_POSITIVE": 1, "TRIG_SLOPE_NEGATIVE": 2}},
	TriggerSlope2: {Enum: map[string]int{"TRIG_SLOPE_POSITIVE": 1, "TRIG_SLOPE_NEGATIVE": 2}},
	TriggerLevel1: {Numeric: true, Min: 0, Max: 255},
	TriggerLevel2: {Numeric: true, Min: 0, Max: 255},

	ExternalTriggerCoupling: {Enum: couplings},
	ExternalTriggerRange:    {Enum: map[string]int{"ETR_TTL": 2, "ETR_2V5": 3}},
	// See ATS SDK Table 3 - Trigger Delay Alignment
	TriggerDelay:   {Numeric: true, Min: 0, Divisor: 8},
	TriggerHoldoff: {Enum: map[string]int{"false": 0, "true": 1}},
	TimeoutTicks:   {Numeric: true, Min: 0},

	Coupling1:     {Enum: couplings},
	Coupling2:     {Enum: couplings},
	ChannelRange1: {Enum: map[string]int{"0.4": 7}},
	ChannelRange2: {Enum: map[string]int{"0.4": 7}},
	Impedance1:    {Enum: map[string]int{"50": 2}},
	Impedance2:    {Enum: map[string]int{"50": 2}},

	AuxIOMode: {Enum: map[string]int{
		"AUX_OUT_TRIGGER":       0,
		"AUX_IN_TRIGGER_ENABLE": 1,
		"AUX_IN_AUXILIARY":      13,
	}},
	AuxIOParam: {Enum: map[string]int{
		"NONE": 0, "TRIG_SLOPE_POSITIVE": 1, "TRIG_SLOPE_NEGATIVE": 2,
	}},
	Mode:                 {Enum: map[string]int{"NPT": 0x200, "TS": 0x400}},
	ChannelSelection:     {Enum: map[string]int{"A": 1, "B": 2, "AB": 3}},
	TransferOffset:       {Numeric: true, Min: 0},
	ExternalStartCapture: {Enum: engineFlags},
	EnableRecordHeaders:  {Enum: map[string]int{"DISABLED": 0x0, "ENABLED": 0x8}},
	AllocBuffers:         {Enum: map[string]int{"DISABLED": 0x0, "ENABLED": 0x20}},
	FifoOnlyStreaming:    {Enum: map[string]int{"DISABLED": 0x0, "ENABLED": 0x800}},
	InterleaveSamples:    {Enum: map[string]int{"DISABLED": 0x0, "ENABLED": 0x1000}},
	GetProcessedData:     {Enum: map[string]int{"DISABLED": 0x0, "ENABLED": 0x2000}},
	AllocatedBuffers:     {Numeric: true, Min: 0},
	BufferTimeout:        {Numeric: true, Min: 0},
}

// CommitOrder is the dependency-respecting order in which buffered parameter
// writes are issued to the board: clock settings before trigger configuration
// before channel configuration before the auxiliary/acquire group.
var CommitOrder = []Param{
	ClockSource,
	SampleRate,
	ExternalSampleRate,
	ClockEdge,
	Decimation,

	TriggerOperation,
	TriggerEngine1,
	TriggerSource1,
	TriggerSlope1,
	TriggerLevel1,
	TriggerEngine2,
	TriggerSource2,
	TriggerSlope2,
	TriggerLevel2,
	ExternalTriggerCoupling,
	ExternalTriggerRange,
	TriggerDelay,
	TriggerHoldoff,
	TimeoutTicks,

	Coupling1,
	ChannelRange1,
	Impedance1,
	Coupling2,
	ChannelRange2,
	Impedance2,

	AuxIOMode,
	AuxIOParam,
	Mode,
	ChannelSelection,
	TransferOffset,
	ExternalStartCapture,
	EnableRecordHeaders,
	AllocBuffers,
	FifoOnlyStreaming,
	InterleaveSamples,
	GetProcessedData,
	AllocatedBuffers,
	BufferTimeout,
}

// ChannelRangeVolts maps channel_range hardware codes back to the input
// range in volts, symmetric about zero.
var ChannelRangeVolts = map[int]float64{
	7: 0.4,
}
