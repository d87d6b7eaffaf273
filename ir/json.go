package ir

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// JSON serialization support for IR types. The wire shape mirrors the
// generated TypeScript records.

// MarshalJSON encodes plain labels as a string and localized labels as an
// object in locale order.
func (l Label) MarshalJSON() ([]byte, error) {
	if !l.IsLocalized() {
		return json.Marshal(l.Text)
	}
	obj := make(Object, 0, len(l.Translations))
	for _, t := range l.Translations {
		obj = append(obj, Field{Key: t.Locale, Value: t.Text})
	}
	return obj.MarshalJSON()
}

// MarshalJSON implements json.Marshaler for Case. Extra fields follow meta
// and never override the standard fields.
func (c Case) MarshalJSON() ([]byte, error) {
	meta := c.Meta
	if meta == nil {
		meta = Object{}
	}
	obj := Object{
		{Key: "key", Value: c.Key},
		{Key: "value", Value: c.Value},
		{Key: "label", Value: c.Label},
		{Key: "meta", Value: meta},
	}
	for _, f := range c.Extra {
		if _, taken := obj.Get(f.Key); taken {
			continue
		}
		obj = append(obj, f)
	}
	return obj.MarshalJSON()
}

// MarshalJSON implements json.Marshaler for Option.
func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Value any    `json:"value"`
		Label string `json:"label"`
	}{
		Value: o.Value,
		Label: o.Label,
	})
}

// MarshalJSON implements json.Marshaler for Entry.
func (e *Entry) MarshalJSON() ([]byte, error) {
	var backing any
	if e.Backing.IsBacked() {
		backing = string(e.Backing)
	}
	cases := e.Cases
	if cases == nil {
		cases = []Case{}
	}
	options := e.Options
	if options == nil {
		options = []Option{}
	}
	return json.Marshal(&struct {
		Name          string   `json:"name"`
		QualifiedName string   `json:"qualifiedName"`
		BackingType   any      `json:"backingType"`
		Entries       []Case   `json:"entries"`
		Options       []Option `json:"options"`
	}{
		Name:          e.Name,
		QualifiedName: e.QualifiedName,
		BackingType:   backing,
		Entries:       cases,
		Options:       options,
	})
}

// MarshalJSON encodes the manifest as an object keyed by short name, in
// insertion order.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := e.MarshalJSON()
		if err != nil {
			return nil, errors.Wrapf(err, "enum %s", e.Name)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
