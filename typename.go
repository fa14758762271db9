package xnbfile

import (
	"strconv"
	"strings"
)

// TypeName is a parsed .NET assembly-qualified type name. Equality between
// TypeNames ignores the assembly qualifier, which allows reader names from
// different framework builds (XNA, MonoGame, FNA) to match.
type TypeName struct {
	// Name is the namespace-qualified type name, without the generic arity
	// marker or the assembly qualifier.
	Name string

	// Subtypes holds the generic type arguments, in order.
	Subtypes []TypeName
}

// ParseTypeName parses an assembly-qualified .NET type name such as
//
//	Namespace.List`1[[Namespace.Sub, Asm]], Assembly, Version=1.0.0.0
//
// The assembly qualifier and generic arity are consumed; bracketed subtype
// groups are parsed recursively.
func ParseTypeName(s string) TypeName {
	s = stripAssembly(s)

	tick := strings.IndexByte(s, '`')
	if tick < 0 {
		return TypeName{Name: s}
	}

	t := TypeName{Name: s[:tick]}
	rest := s[tick+1:]

	// Skip the arity digits; the subtype list determines the real count.
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	rest = rest[i:]

	if len(rest) < 2 || rest[0] != '[' {
		return t
	}
	// Trim the outer group brackets.
	rest = rest[1 : len(rest)-1]

	depth := 0
	start := -1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ']':
			depth--
			if depth == 0 && start >= 0 {
				t.Subtypes = append(t.Subtypes, ParseTypeName(rest[start:i]))
				start = -1
			}
		}
	}

	return t
}

// stripAssembly removes the assembly qualifier: everything from the first
// comma at bracket depth zero.
func stripAssembly(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i])
			}
		}
	}
	return strings.TrimSpace(s)
}

// Equal returns whether two type names refer to the same type, ignoring
// assembly qualifiers.
func (t TypeName) Equal(u TypeName) bool {
	if t.Name != u.Name || len(t.Subtypes) != len(u.Subtypes) {
		return false
	}
	for i := range t.Subtypes {
		if !t.Subtypes[i].Equal(u.Subtypes[i]) {
			return false
		}
	}
	return true
}

// IsArray returns whether the name denotes an array type.
func (t TypeName) IsArray() bool {
	return strings.HasSuffix(t.Name, "[]")
}

// String formats the type name without an assembly qualifier. Generic types
// are emitted as Name`N[[sub1],[sub2],...].
func (t TypeName) String() string {
	if len(t.Subtypes) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('`')
	b.WriteString(strconv.Itoa(len(t.Subtypes)))
	b.WriteByte('[')
	for i, sub := range t.Subtypes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		b.WriteString(sub.String())
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
