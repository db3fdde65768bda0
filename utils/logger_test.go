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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"debug":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"":        logrus.InfoLevel,
		"WARN":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		" error ": logrus.ErrorLevel,
		"fatal":   logrus.FatalLevel,
		"panic":   logrus.PanicLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestNewLoggerDeduplicates(t *testing.T) {
	a := NewLogger("TEST-DEDUP")
	b := NewLogger("TEST-DEDUP")
	assert.Same(t, a, b)
}

func TestSetLoggerLevel(t *testing.T) {
	l := NewLogger("TEST-LEVEL")
	assert.True(t, SetLoggerLevel("TEST-LEVEL", "debug"))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	assert.False(t, SetLoggerLevel("NO-SUCH-LOGGER", "debug"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STR", "value")
	assert.Equal(t, "value", EnvDefaultString("UTILS_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("UTILS_TEST_STR_UNSET", "def"))

	t.Setenv("UTILS_TEST_BOOL", "yes")
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	t.Setenv("UTILS_TEST_BOOL", "off")
	assert.False(t, EnvDefaultBool("UTILS_TEST_BOOL", true))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL_UNSET", true))
}

func TestPadAndLimit(t *testing.T) {
	assert.Equal(t, "  ab", padLeft("ab", 4))
	assert.Equal(t, "abcd", padLeft("abcd", 3))
	assert.Equal(t, "abc", limitRunes("abcdef", 3))
	assert.Equal(t, "abc", limitRunes("abc", 10))
	assert.Equal(t, "abc", limitRunes("abc", 0))
}
