package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/broady/enumshare/internal/decode"
)

// Catalog is an in-memory Translator loaded from translation files.
//
// Keys are dotted paths. Files under lang/{locale}/{group}.{ext} contribute
// keys prefixed with the group name, so lang/en/enums.yaml containing
//
//	TripStatus:
//	  Saved: Trip Saved
//
// defines "enums.TripStatus.Saved". A flat lang/{locale}.json file
// contributes its keys verbatim.
//
// A Catalog is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{messages: make(map[string]map[string]string)}
}

// SetFallback sets the locale consulted when a key is missing in the
// requested locale. Empty disables the fallback.
func (c *Catalog) SetFallback(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = locale
}

// Add merges messages into locale, overwriting existing keys.
func (c *Catalog) Add(locale string, messages map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.messages[locale]
	if m == nil {
		m = make(map[string]string, len(messages))
		c.messages[locale] = m
	}
	for k, v := range messages {
		m[k] = v
	}
}

// Translate implements Translator. A missing key is returned unchanged.
func (c *Catalog) Translate(key string, params map[string]string, locale string) string {
	c.mu.RLock()
	text, ok := c.messages[locale][key]
	if !ok && c.fallback != "" && c.fallback != locale {
		text, ok = c.messages[c.fallback][key]
	}
	c.mu.RUnlock()
	if !ok {
		return key
	}
	return Replace(text, params)
}

// Locales returns the loaded locales, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	locales := make([]string, 0, len(c.messages))
	for l := range c.messages {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// Len returns the number of keys defined for locale.
func (c *Catalog) Len(locale string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages[locale])
}

// LoadCatalog reads every translation file under dir. A missing dir yields
// an empty catalog. Entries whose name is not a valid locale are skipped.
func LoadCatalog(dir string) (*Catalog, error) {
	c := NewCatalog()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrapf(err, "read translations %s", dir)
	}

	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(dir, name)
		if e.IsDir() {
			if ValidateLocale(name) != nil {
				continue
			}
			if err := c.loadLocaleDir(name, path); err != nil {
				return nil, err
			}
			continue
		}
		ext := filepath.Ext(name)
		locale := strings.TrimSuffix(name, ext)
		if ext != ".json" || ValidateLocale(locale) != nil {
			continue
		}
		var tree map[string]any
		if err := decode.File(path, &tree); err != nil {
			return nil, err
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.Add(locale, flat)
	}
	return c, nil
}

// loadLocaleDir loads lang/{locale}/{group}.{ext}. Files are read in name
// order; a key defined twice keeps the last value read.
func (c *Catalog) loadLocaleDir(locale, dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "read translations %s", dir)
	}
	for _, f := range files {
		if f.IsDir() || !decode.Supported(f.Name()) {
			continue
		}
		var tree map[string]any
		if err := decode.File(filepath.Join(dir, f.Name()), &tree); err != nil {
			return err
		}
		group := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		flat := make(map[string]string)
		flatten(group, tree, flat)
		c.Add(locale, flat)
	}
	return nil
}

// flatten writes the leaves of tree into out under dotted keys. Lists are
// not translatable and are skipped.
func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case map[string]any:
			flatten(key, v, out)
		case map[any]any:
			m := make(map[string]any, len(v))
			for mk, mv := range v {
				m[fmt.Sprint(mk)] = mv
			}
			flatten(key, m, out)
		case []any, nil:
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
}
