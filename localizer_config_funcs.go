package weblocale

import (
	"fmt"
	"log/slog"

	"github.com/weblocale/weblocale/dom"
)

// ConfigureLocalizerFunc is used to configure a Localizer during creation
// with New.
type ConfigureLocalizerFunc func(l *Localizer, err *error)

// WithLanguage registers a supported language code with a display label for
// switch controls. Codes keep their registration order.
func WithLanguage(code, label string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		code = normalizeCode(code)
		if code == "" {
			*err = fmt.Errorf("%w: empty language code", ErrUnsupportedLanguage)
			return
		}
		if label == "" {
			label = code
		}
		l.languages.Set(code, label)
	}
}

// WithLanguages registers supported language codes using each code as its own
// label.
func WithLanguages(codes ...string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		for _, code := range codes {
			WithLanguage(code, "")(l, err)
			if *err != nil {
				return
			}
		}
	}
}

// WithDefaultLanguage designates the fallback language. It must be registered
// as a supported language.
func WithDefaultLanguage(code string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		l.defaultLang = normalizeCode(code)
	}
}

// WithRTL marks language codes as right-to-left.
func WithRTL(codes ...string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		for _, code := range codes {
			l.rtl[normalizeCode(code)] = struct{}{}
		}
	}
}

// WithDocument sets the document the localizer renders into. Required.
func WithDocument(doc dom.Document) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		l.doc = doc
	}
}

// WithLoader sets the dataset loader. Required.
func WithLoader(loader Loader) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		l.loader = loader
	}
}

// WithEnvironment sets the preference environment. Defaults to an empty
// MemoryEnvironment, which reports no preferences.
func WithEnvironment(env Environment) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if env != nil {
			l.env = env
		}
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithQueryParam overrides the name of the language override query parameter.
func WithQueryParam(name string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if name != "" {
			l.queryParam = name
		}
	}
}

// WithKeyAttribute overrides the translation-key marker attribute.
func WithKeyAttribute(name string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if name != "" {
			l.keyAttr = name
		}
	}
}

// WithAttrMapAttribute overrides the attribute-mapping marker attribute.
func WithAttrMapAttribute(name string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if name != "" {
			l.attrMapAttr = name
		}
	}
}

// WithSwitchAttribute overrides the switch-control marker attribute.
func WithSwitchAttribute(name string) ConfigureLocalizerFunc {
	return func(l *Localizer, err *error) {
		if name != "" {
			l.switchAttr = name
		}
	}
}
