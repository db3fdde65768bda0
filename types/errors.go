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

import "errors"

// Conversion failures are fatal to the caller. Each failure mode gets its own
// sentinel so that fixture loaders can report precisely what went wrong
// instead of one generic lookup error.
var (
	// ErrUnknownValue: a stored integer has no matching enum member.
	ErrUnknownValue = errors.New("enum: no member with value")

	// ErrUnknownMember: a member name does not exist within the enum.
	ErrUnknownMember = errors.New("enum: unknown member")

	// ErrEnumMismatch: a dotted reference names a different enum than the
	// one the field is bound to.
	ErrEnumMismatch = errors.New("enum: type name mismatch")

	// ErrMissingSeparator: a dotted reference has no "." delimiter.
	ErrMissingSeparator = errors.New("enum: missing '.' separator")

	// ErrUnregisteredEnum: no spec registered for the enum name or type.
	ErrUnregisteredEnum = errors.New("enum: type not registered")

	// ErrDuplicateMember: two members of one enum share a name.
	ErrDuplicateMember = errors.New("enum: duplicate member name")
)
