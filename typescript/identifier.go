package typescript

import (
	"strconv"
	"strings"
	"unicode"
)

// TypeScript reserved words.
var reservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"type":       true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// apiMembers are the properties and methods of a generated enum object.
// Case keys with these names are not emitted as direct properties.
var apiMembers = map[string]bool{
	"name":          true,
	"qualifiedName": true,
	"backingType":   true,
	"entries":       true,
	"keys":          true,
	"values":        true,
	"options":       true,
	"count":         true,
	"from":          true,
	"fromKey":       true,
	"isValid":       true,
	"hasKey":        true,
	"labels":        true,
	"__proto__":     true,
}

// moduleNames are the module-level bindings of a generated module. Case
// constants are renamed when they would shadow one of them.
var moduleNames = map[string]bool{
	"ENTRIES":      true,
	"KEYS":         true,
	"VALUES":       true,
	"OPTIONS":      true,
	"BY_KEY":       true,
	"BY_VALUE":     true,
	"resolveLabel": true,
	"buildEnum":    true,
}

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// needsQuoting returns true if a property name must be written as a
// string literal.
func needsQuoting(name string) bool {
	if name == "" {
		return true
	}

	if unicode.IsDigit(rune(name[0])) {
		return true
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return true
		}
	}

	return reservedWords[name]
}

// sanitizeIdentifier makes an identifier valid for TypeScript.
func sanitizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}

	var result strings.Builder

	if unicode.IsDigit(rune(name[0])) {
		result.WriteRune('_')
	}

	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	return escapeReservedWord(result.String())
}

// propertyKey formats name for use as an object literal or type member key.
func propertyKey(name string) string {
	if needsQuoting(name) {
		return quote(name)
	}
	return name
}

// identAllocator hands out module-level identifiers that do not collide
// with each other or with taken names.
type identAllocator struct {
	used map[string]bool
}

func newIdentAllocator(taken ...string) *identAllocator {
	a := &identAllocator{used: make(map[string]bool)}
	for name := range moduleNames {
		a.used[name] = true
	}
	for _, name := range taken {
		a.used[name] = true
	}
	return a
}

// alloc returns a sanitized identifier for name, suffixed with a number
// when it is already in use.
func (a *identAllocator) alloc(name string) string {
	base := sanitizeIdentifier(name)
	ident := base
	for i := 2; a.used[ident]; i++ {
		ident = base + "_" + strconv.Itoa(i)
	}
	a.used[ident] = true
	return ident
}
