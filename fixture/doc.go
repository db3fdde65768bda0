// Package fixture loads and dumps YAML fixture documents for registered
// models, rendering enum-backed integer columns in their dotted
// "<EnumName>.<MemberName>" textual form.
package fixture
