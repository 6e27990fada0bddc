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

// Package pcsc is a channel provider on top of the platform PC/SC stack:
// libpcsclite on Linux and the BSDs, the PCSC framework on macOS and
// winscard.dll on Windows.
//
// Importing the package registers the "pcsc" backend.
package pcsc

// https://pcsclite.apdu.fr/api/group__API.html
// https://learn.microsoft.com/en-us/windows/win32/api/winscard/
