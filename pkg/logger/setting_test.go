// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefault(t *testing.T) {
	l := GetLogger("engine")
	require.NotNil(t, l)
	assert.Equal(t, "ENGINE", l.Module())
}

func TestInitWithModuleLevels(t *testing.T) {
	err := Init(Logging{
		Env:     "prod",
		Level:   "warn",
		Modules: []string{"optimizer", "executor"},
		Levels:  []string{"debug", "error"},
	})
	require.NoError(t, err)

	assert.Equal(t, zerolog.DebugLevel, GetLogger("optimizer").GetLevel())
	assert.Equal(t, zerolog.ErrorLevel, GetLogger("executor").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, GetLogger("table").GetLevel())
}

func TestInitMismatchedModules(t *testing.T) {
	err := Init(Logging{
		Env:     "prod",
		Level:   "info",
		Modules: []string{"engine"},
	})
	assert.Error(t, err)
}

func TestNamedInheritsModuleLevel(t *testing.T) {
	err := Init(Logging{
		Env:     "prod",
		Level:   "info",
		Modules: []string{"ENGINE.CACHE"},
		Levels:  []string{"trace"},
	})
	require.NoError(t, err)

	l := GetLogger("engine").Named("cache")
	assert.Equal(t, "ENGINE.CACHE", l.Module())
	assert.Equal(t, zerolog.TraceLevel, l.GetLevel())
}
