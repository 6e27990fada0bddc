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

package tlv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagString(t *testing.T) {
	assert.Equal(t, "0x03", Tag(0x03).String())
	assert.Equal(t, "0x5f2d", Tag(0x5f2d).String())
}

func TestTagValid(t *testing.T) {
	assert.True(t, Tag(0x00).Valid())
	assert.True(t, Tag(0x1e).Valid())
	assert.True(t, Tag(0x5f2d).Valid())
	assert.True(t, Tag(0x7f61).Valid())
	assert.False(t, Tag(0x1f).Valid())
	assert.False(t, Tag(0x5e2d).Valid())
}

func TestTagClass(t *testing.T) {
	tests := []struct {
		tag         Tag
		class       Class
		constructed bool
	}{
		{tag: 0x03, class: UniversalClass},
		{tag: 0x5f2d, class: ApplicationClass},
		{tag: 0x7f61, class: ApplicationClass, constructed: true},
		{tag: 0x80, class: ContextSpecificClass},
		{tag: 0xa5, class: ContextSpecificClass, constructed: true},
		{tag: 0xdf30, class: PrivateClass},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			assert.Equal(t, tt.class, tt.tag.Class())
			assert.Equal(t, tt.constructed, tt.tag.Constructed())
		})
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "ContextSpecific", ContextSpecificClass.String())
	assert.Equal(t, "UnknownClass(1)", Class(1).String())
	assert.Equal(t, "Constructed", ConstructedType.String())
}
