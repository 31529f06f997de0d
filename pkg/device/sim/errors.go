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

package sim

import (
	"fmt"

	"gitlab.com/qtomo/go-ats/pkg/params"
)

// ErrWrite returned when a parameter write is injected to fail
type ErrWrite struct {
	Param params.Param
}

func (e ErrWrite) Error() string {
	return fmt.Sprintf("Simulated write failure: %s", e.Param)
}

// ErrParamNotSet returned when a parameter is read before it was written
type ErrParamNotSet struct {
	Param params.Param
}

func (e ErrParamNotSet) Error() string {
	return fmt.Sprintf("Parameter not set: %s", e.Param)
}

// ErrProtocol returned when the buffer protocol is violated
type ErrProtocol struct {
	What string
}

func (e ErrProtocol) Error() string {
	return fmt.Sprintf("Device protocol violation: %s", e.What)
}
