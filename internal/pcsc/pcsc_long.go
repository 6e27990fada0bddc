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

//go:build linux || freebsd || openbsd

package pcsc

// #include <PCSC/winscard.h>
import "C"

func scCheck(rc C.long) error {
	if rc == rcSuccess {
		return nil
	}
	return &Error{int64(rc)}
}

func isRCNoReaders(rc C.long) bool {
	return uint32(rc) == rcNoReaders
}
