/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" warning "))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("loud"))
}

func TestNewLoggerRegistersAndStampsName(t *testing.T) {
	var buf bytes.Buffer
	ConfigureOutput(&buf)
	defer ConfigureOutput(os.Stdout)

	l := NewLogger("TEST_STAMP")
	l.SetFormatter(&logrus.JSONFormatter{})
	l.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "TEST_STAMP", entry["logger"])
	assert.Equal(t, "hello", entry["msg"])

	same := NewLogger("TEST_STAMP")
	assert.Same(t, l, same)
}

func TestSetLoggerLevel(t *testing.T) {
	l := NewLogger("TEST_LEVEL")
	assert.True(t, SetLoggerLevel("TEST_LEVEL", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("NOT_REGISTERED", "error"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("HUMMER_TEST_STR", " value ")
	t.Setenv("HUMMER_TEST_BOOL", "true")
	t.Setenv("HUMMER_TEST_BAD_BOOL", "nope")
	assert.Equal(t, "value", EnvDefaultString("HUMMER_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("HUMMER_TEST_MISSING", "def"))
	assert.True(t, EnvDefaultBool("HUMMER_TEST_BOOL", false))
	assert.False(t, EnvDefaultBool("HUMMER_TEST_BAD_BOOL", false))
}
