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

package demux

import (
	"fmt"
)

// ErrBadLayout returned when the buffer layout description is inconsistent
type ErrBadLayout struct {
	What string
}

func (e ErrBadLayout) Error() string {
	return fmt.Sprintf("Bad buffer layout: %s", e.What)
}

// ErrShortBuffer returned when the raw buffer does not hold a full transfer
type ErrShortBuffer struct {
	Want int
	Got  int
}

func (e ErrShortBuffer) Error() string {
	return fmt.Sprintf("Short buffer: want %d bytes, got %d", e.Want, e.Got)
}

// ErrUnknownStrategy returned when a conversion strategy name is not known
type ErrUnknownStrategy struct {
	Name string
}

func (e ErrUnknownStrategy) Error() string {
	return fmt.Sprintf("Unknown conversion strategy: %s. Must be one of: vector, loop", e.Name)
}
