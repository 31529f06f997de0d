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

// ErrUnknownParam returned when a parameter name is not in the schema
type ErrUnknownParam struct {
	Param Param
}

func (e ErrUnknownParam) Error() string {
	return fmt.Sprintf("Unknown parameter: %s", e.Param)
}

// ErrIllegalValue returned when a value is outside the legal set of a parameter
type ErrIllegalValue struct {
	Value interface{}
}

func (e ErrIllegalValue) Error() string {
	return fmt.Sprintf("Illegal parameter value: %v", e.Value)
}
