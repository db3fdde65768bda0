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
	"reflect"
	"sync"
)

// Member binds one named constant of an application enum to its integer
// storage value. Label is optional and only used when deriving choices;
// it falls back to Name.
type Member[E comparable] struct {
	Member E
	Name   string
	Value  int
	Label  string
}

// Choice is a (value, label) pair used to populate selection widgets.
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Spec is an immutable descriptor of an enumerated type: its declared name
// plus the ordered member set. Lookups in both directions are built once at
// construction time; a Spec never mutates afterwards.
//
// Duplicate integer values (aliases) are legal; reverse lookup resolves an
// aliased value to the first declared member carrying it. Callers that want
// strict uniqueness can call Unique after construction.
type Spec[E comparable] struct {
	name    string
	members []Member[E]
	byValue map[int]int    // value -> index of first declared member
	byName  map[string]int // member name -> index
	index   map[E]int      // member -> index
}

// NewSpec builds a Spec for the enum named name from its members in
// declaration order. The name and at least one member are required, and
// member names must be unique within the enum.
func NewSpec[E comparable](name string, members ...Member[E]) (*Spec[E], error) {
	if name == "" {
		return nil, fmt.Errorf("enum spec: name cannot be empty")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("enum spec %s: at least one member is required", name)
	}

	s := &Spec[E]{
		name:    name,
		members: make([]Member[E], len(members)),
		byValue: make(map[int]int, len(members)),
		byName:  make(map[string]int, len(members)),
		index:   make(map[E]int, len(members)),
	}
	copy(s.members, members)

	for i, m := range s.members {
		if m.Name == "" {
			return nil, fmt.Errorf("enum spec %s: member %d has no name", name, i)
		}
		if _, exists := s.byName[m.Name]; exists {
			return nil, fmt.Errorf("enum spec %s: %w: %s", name, ErrDuplicateMember, m.Name)
		}
		s.byName[m.Name] = i
		if _, exists := s.byValue[m.Value]; !exists {
			// first declared alias wins on reverse lookup
			s.byValue[m.Value] = i
		}
		if _, exists := s.index[m.Member]; !exists {
			s.index[m.Member] = i
		}
	}
	return s, nil
}

// MustSpec is like NewSpec but panics on error. Intended for package-level
// enum declarations.
func MustSpec[E comparable](name string, members ...Member[E]) *Spec[E] {
	s, err := NewSpec[E](name, members...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the declared enum type name.
func (s *Spec[E]) Name() string { return s.name }

// Members returns the members in declaration order.
func (s *Spec[E]) Members() []Member[E] {
	out := make([]Member[E], len(s.members))
	copy(out, s.members)
	return out
}

// Len returns the number of declared members.
func (s *Spec[E]) Len() int { return len(s.members) }

// FromValue resolves a stored integer back to its member. Aliased values
// resolve to the first declared member.
func (s *Spec[E]) FromValue(value int) (E, error) {
	i, ok := s.byValue[value]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: %s has no member with value %d", ErrUnknownValue, s.name, value)
	}
	return s.members[i].Member, nil
}

// FromName resolves a member name to its member.
func (s *Spec[E]) FromName(name string) (E, error) {
	i, ok := s.byName[name]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%w: %s.%s", ErrUnknownMember, s.name, name)
	}
	return s.members[i].Member, nil
}

// ValueOf returns the integer storage value of member.
func (s *Spec[E]) ValueOf(member E) (int, error) {
	i, ok := s.index[member]
	if !ok {
		return 0, fmt.Errorf("%w: %v is not a member of %s", ErrUnknownMember, member, s.name)
	}
	return s.members[i].Value, nil
}

// NameOf returns the declared name of member.
func (s *Spec[E]) NameOf(member E) (string, error) {
	i, ok := s.index[member]
	if !ok {
		return "", fmt.Errorf("%w: %v is not a member of %s", ErrUnknownMember, member, s.name)
	}
	return s.members[i].Name, nil
}

// Contains reports whether member belongs to the enum.
func (s *Spec[E]) Contains(member E) bool {
	_, ok := s.index[member]
	return ok
}

// Unique verifies that no two members share an integer value. Mirrors the
// strict mode some applications want before trusting reverse lookups.
func (s *Spec[E]) Unique() error {
	seen := make(map[int]string, len(s.members))
	for _, m := range s.members {
		if prev, ok := seen[m.Value]; ok {
			return fmt.Errorf("enum spec %s: members %s and %s share value %d", s.name, prev, m.Name, m.Value)
		}
		seen[m.Value] = m.Name
	}
	return nil
}

// Choices derives the default (value, label) list from the members in
// declaration order, falling back to the member name when no label is set.
func (s *Spec[E]) Choices() []Choice {
	choices := make([]Choice, len(s.members))
	for i, m := range s.members {
		label := m.Label
		if label == "" {
			label = m.Name
		}
		choices[i] = Choice{Value: m.Value, Label: label}
	}
	return choices
}

// namedSpec is the type-erased view of a Spec kept in the registry so that
// fixture decoding can resolve specs without knowing E.
type namedSpec interface {
	Name() string
	specType() reflect.Type
	valueOfName(name string) (int, error)
	nameOfValue(value int) (string, error)
}

func (s *Spec[E]) specType() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

func (s *Spec[E]) valueOfName(name string) (int, error) {
	i, ok := s.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownMember, s.name, name)
	}
	return s.members[i].Value, nil
}

func (s *Spec[E]) nameOfValue(value int) (string, error) {
	i, ok := s.byValue[value]
	if !ok {
		return "", fmt.Errorf("%w: %s has no member with value %d", ErrUnknownValue, s.name, value)
	}
	return s.members[i].Name, nil
}

var (
	registryMu     sync.RWMutex
	registryByName = map[string]namedSpec{}
	registryByType = map[reflect.Type]namedSpec{}
)

// Register adds spec to the process-wide registry so that Value columns and
// fixture decoding can resolve it by enum name or by Go type. Registering the
// same spec again is a no-op; registering a different spec under a name or
// type already taken is an error.
func Register[E comparable](spec *Spec[E]) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := registryByName[spec.Name()]; ok {
		if existing == namedSpec(spec) {
			return nil
		}
		return fmt.Errorf("enum registry: name %s already registered", spec.Name())
	}
	t := spec.specType()
	if existing, ok := registryByType[t]; ok && existing != namedSpec(spec) {
		return fmt.Errorf("enum registry: type %s already registered as %s", t, existing.Name())
	}
	registryByName[spec.Name()] = spec
	registryByType[t] = spec
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[E comparable](spec *Spec[E]) {
	if err := Register(spec); err != nil {
		panic(err)
	}
}

// SpecFor returns the registered spec for the enum type E.
func SpecFor[E comparable]() (*Spec[E], error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t := reflect.TypeOf((*E)(nil)).Elem()
	ns, ok := registryByType[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredEnum, t)
	}
	return ns.(*Spec[E]), nil
}

// RegisteredEnum reports whether an enum name is present in the registry.
func RegisteredEnum(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registryByName[name]
	return ok
}

func lookupSpec(name string) (namedSpec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ns, ok := registryByName[name]
	return ns, ok
}
