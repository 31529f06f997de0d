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

const (
	ConfigDir       = ".go-ats"
	ConfigFile      = "config"
	StateFile       = "state.db"
	DefaultLogLevel = "info"

	DefaultApiAddress = "127.0.0.1"
	DefaultApiPort    = 8000

	DefaultBoardModel = "ATS9371"

	DefaultClockSource = "INTERNAL_CLOCK"
	DefaultSampleRate  = 1000000000
	DefaultClockEdge   = "CLOCK_EDGE_RISING"
	DefaultDecimation  = 1

	DefaultTriggerOperation = "TRIG_ENGINE_OP_J"
	DefaultTriggerSource1   = "EXTERNAL"
	DefaultTriggerSource2   = "DISABLE"
	DefaultTriggerSlope     = "TRIG_SLOPE_POSITIVE"
	DefaultTriggerLevel     = 140
	DefaultTriggerDelay     = 0
	DefaultExtTrigCoupling  = "DC"
	DefaultExtTrigRange     = "ETR_2V5"
	DefaultTimeoutTicks     = 0

	DefaultCoupling     = "DC"
	DefaultChannelRange = 0.4
	DefaultImpedance    = 50

	DefaultSamplesPerRecord      = 1024
	DefaultRecordsPerBuffer      = 10
	DefaultBuffersPerAcquisition = 10
	DefaultAllocatedBuffers      = 4
	DefaultChannelSelection      = "AB"
	DefaultBufferTimeoutMs       = 1000
	DefaultStrategy              = "loop"
)
