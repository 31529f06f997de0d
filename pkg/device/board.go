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
)

const (
	// MaxTransferBytes is the largest DMA transfer the board accepts.
	MaxTransferBytes = 84 << 20
)

// ATS9371 returns the board profile of the AlazarTech ATS9371. The board has
// 12-bit converters; raw samples arrive as 16-bit words shifted left by four
// bits, with the device-reported zero code of 32760.
func ATS9371() ifc.BoardInfo {
	return ifc.BoardInfo{
		Model:            "ATS9371",
		BitsPerSample:    16,
		BytesPerSample:   2,
		ZeroCode:         32760,
		Channels:         2,
		MaxTransferBytes: MaxTransferBytes,
	}
}

// ATS9870 returns the board profile of the 8-bit AlazarTech ATS9870.
func ATS9870() ifc.BoardInfo {
	return ifc.BoardInfo{
		Model:            "ATS9870",
		BitsPerSample:    8,
		BytesPerSample:   1,
		ZeroCode:         128,
		Channels:         2,
		MaxTransferBytes: MaxTransferBytes,
	}
}

// BoardByModel resolves a board profile by model name.
func BoardByModel(model string) (ifc.BoardInfo, error) {
	switch model {
	case "ATS9371":
		return ATS9371(), nil
	case "ATS9870":
		return ATS9870(), nil
	}
	return ifc.BoardInfo{}, ErrNoBackend{Model: model}
}
