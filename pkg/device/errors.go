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
	"fmt"

	"gitlab.com/qtomo/go-ats/pkg/params"
)

// ErrConfiguration returned when a parameter is illegal or a write to the
// board fails during commit
type ErrConfiguration struct {
	Param params.Param
	Cause error
}

func (e ErrConfiguration) Error() string {
	return fmt.Sprintf("Configuration error: parameter: %s: %s", e.Param, e.Cause)
}

// ErrNoBackend returned when the board backend requested by the config is
// not available in this build
type ErrNoBackend struct {
	Model string
}

func (e ErrNoBackend) Error() string {
	return fmt.Sprintf("No device backend for board %s: only the simulated board is built in; the ATS SDK backend is an external component", e.Model)
}
