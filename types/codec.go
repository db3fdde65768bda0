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

package types

import (
	"fmt"
	"strings"
)

// DottedSeparator delimits enum name and member name in the textual form
// "<EnumName>.<MemberName>" used by fixtures. Member names may not contain
// the separator; the enum name part ends at the FIRST occurrence.
const DottedSeparator = "."

// SplitDotted splits a dotted enum reference into its enum name and member
// name parts at the first separator.
func SplitDotted(s string) (enumName, memberName string, err error) {
	enumName, memberName, found := strings.Cut(s, DottedSeparator)
	if !found {
		return "", "", fmt.Errorf("%w: %q", ErrMissingSeparator, s)
	}
	return enumName, memberName, nil
}

// ResolveDotted resolves a dotted reference through the registry to the
// integer storage value of the named member.
func ResolveDotted(s string) (int, error) {
	enumName, memberName, err := SplitDotted(s)
	if err != nil {
		return 0, err
	}
	ns, ok := lookupSpec(enumName)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnregisteredEnum, enumName)
	}
	return ns.valueOfName(memberName)
}

// DottedForValue renders the dotted form for a registered enum name and a
// stored integer value. Aliased values render as the first declared member.
func DottedForValue(enumName string, value int) (string, error) {
	ns, ok := lookupSpec(enumName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnregisteredEnum, enumName)
	}
	memberName, err := ns.nameOfValue(value)
	if err != nil {
		return "", err
	}
	return enumName + DottedSeparator + memberName, nil
}
