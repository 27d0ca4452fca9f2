package weblocale

import "context"

// Marker attributes read by the renderer and the default name of the language
// query parameter. All of them can be overridden through configuration
// functions.
const (
	// DefaultKeyAttr marks an element whose content is a translation key path.
	DefaultKeyAttr = "data-i18n"
	// DefaultAttrMapAttr marks an element carrying an "attr:key[,attr:key...]"
	// mapping of attributes to translation key paths.
	DefaultAttrMapAttr = "data-i18n-attr"
	// DefaultSwitchAttr marks a switch-control element tagged with its target
	// language code.
	DefaultSwitchAttr = "data-lang"
	// DefaultQueryParam is the query parameter holding an explicit language
	// override.
	DefaultQueryParam = "lang"
)

const (
	activeClass = "active"
	classRTL    = "rtl"
	classLTR    = "ltr"

	metaKey            = "meta"
	metaTitleKey       = "title"
	metaDescriptionKey = "description"
)

// Environment is the preference surface a localizer resolves the language
// from. Implementations that cannot serve a source report its absence (empty
// string, ok=false, or an error from StorePreference) rather than failing
// resolution.
type Environment interface {
	// QueryParam returns the named query parameter, or "" when absent.
	QueryParam(name string) string
	// StoredPreference returns the persisted language choice, if any.
	StoredPreference() (string, bool)
	// StorePreference persists the language choice best-effort.
	StorePreference(code string) error
	// LocalePreferences returns the environment's locale tags in preference
	// order, most preferred first. Entries may carry regions or encodings
	// ("en-US", "pt_BR.UTF-8"); only the language subtag is considered.
	LocalePreferences() []string
}

// MemoryEnvironment is an in-memory Environment. The zero value is usable and
// reports no preferences; it doubles as the default environment and as a test
// double.
type MemoryEnvironment struct {
	Query    map[string]string
	Stored   string
	HasStore bool
	Locales  []string

	// StoreErr, when set, is returned by StorePreference to simulate
	// unavailable storage.
	StoreErr error
}

func (m *MemoryEnvironment) QueryParam(name string) string {
	return m.Query[name]
}

func (m *MemoryEnvironment) StoredPreference() (string, bool) {
	return m.Stored, m.HasStore
}

func (m *MemoryEnvironment) StorePreference(code string) error {
	if m.StoreErr != nil {
		return m.StoreErr
	}
	m.Stored = code
	m.HasStore = true
	return nil
}

func (m *MemoryEnvironment) LocalePreferences() []string {
	return m.Locales
}

// Loader fetches the translation dataset for a language code. The loader
// package provides HTTP and fs.FS backed implementations.
type Loader interface {
	Load(ctx context.Context, code string) (map[string]any, error)
}

// LanguageOption describes one entry of a language switch control.
type LanguageOption struct {
	Code   string
	Label  string
	Active bool
}
