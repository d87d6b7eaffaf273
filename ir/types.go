// Package ir defines the intermediate representation of exported enums.
// Providers and the normalizer produce these values; generators transform
// them into target language source code.
package ir

// BackingKind identifies the scalar type carried by the cases of an enum.
type BackingKind string

const (
	// BackingNone marks an unbacked (pure) enum whose cases only have keys.
	BackingNone BackingKind = ""
	// BackingString marks an enum whose cases carry string values.
	BackingString BackingKind = "string"
	// BackingInt marks an enum whose cases carry integer values.
	BackingInt BackingKind = "int"
)

// String returns the string representation of the backing kind.
func (k BackingKind) String() string {
	if k == BackingNone {
		return "none"
	}
	return string(k)
}

// IsBacked reports whether cases of this kind carry a value.
func (k BackingKind) IsBacked() bool {
	return k != BackingNone
}

// KindOf returns the backing kind for a case value.
// Values are string, int64 or nil; anything else reports false.
func KindOf(v any) (BackingKind, bool) {
	switch v.(type) {
	case nil:
		return BackingNone, true
	case string:
		return BackingString, true
	case int64:
		return BackingInt, true
	}
	return BackingNone, false
}

// Warning represents a non-fatal issue found while building or generating.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Enum is the short name of the enum that triggered the warning, if any.
	Enum string
}

// ValidationError is a structural problem detected by Validate.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
