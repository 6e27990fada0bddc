// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package protocol

import "fmt"

type Instruction byte

const (
	InsSelectApplication Instruction = 0xA4
	InsGetResponse       Instruction = 0xC0
	InsGetData           Instruction = 0xCB
	InsPutData           Instruction = 0xDB
)

func (i Instruction) String() string {
	switch i {
	case InsSelectApplication:
		return "SELECT"
	case InsGetResponse:
		return "GET RESPONSE"
	case InsGetData:
		return "GET DATA"
	case InsPutData:
		return "PUT DATA"
	default:
		return fmt.Sprintf("0x%02x", byte(i))
	}
}
