package ir

// Translation is the text of a label in one locale.
type Translation struct {
	Locale string
	Text   string
}

// Label is the resolved label of a case. It is either plain text or an
// ordered locale map. Cases of the same enum may use different shapes.
type Label struct {
	// Text is the label when the label is not localized.
	Text string

	// Translations holds one entry per configured locale, in configured
	// order. A non-nil value marks the label as localized.
	Translations []Translation
}

// PlainLabel returns a non-localized label.
func PlainLabel(text string) Label {
	return Label{Text: text}
}

// LocalizedLabel returns a label with one text per locale.
// The result is localized even when no translations are given.
func LocalizedLabel(translations ...Translation) Label {
	if translations == nil {
		translations = []Translation{}
	}
	return Label{Translations: translations}
}

// IsLocalized reports whether the label is a locale map.
func (l Label) IsLocalized() bool {
	return l.Translations != nil
}

// Lookup returns the text for locale.
func (l Label) Lookup(locale string) (string, bool) {
	for _, t := range l.Translations {
		if t.Locale == locale {
			return t.Text, true
		}
	}
	return "", false
}

// First returns the first translation's text, or Text for plain labels.
func (l Label) First() (string, bool) {
	if !l.IsLocalized() {
		return l.Text, true
	}
	if len(l.Translations) == 0 {
		return "", false
	}
	return l.Translations[0].Text, true
}
