package weblocale

import (
	"strings"

	"golang.org/x/text/language"
)

// resolve determines the active language code using a strict priority order:
// explicit query-parameter override, stored preference, environment locale
// preferences, configured default. Sources that yield nothing or an
// unsupported code are skipped; resolution always terminates in a supported
// code.
func (l *Localizer) resolve() string {
	if code := normalizeCode(l.env.QueryParam(l.queryParam)); code != "" {
		if l.Supported(code) {
			return code
		}
		l.logger.Debug("ignoring unsupported query language", "lang", code)
	}

	if stored, ok := l.env.StoredPreference(); ok {
		if code := normalizeCode(stored); l.Supported(code) {
			return code
		}
	}

	if prefs := l.env.LocalePreferences(); len(prefs) > 0 {
		// Primary tag first, then the full ordered list.
		if code := languageSubtag(prefs[0]); l.Supported(code) {
			return code
		}
		for _, pref := range prefs {
			if code := languageSubtag(pref); l.Supported(code) {
				return code
			}
		}
	}

	return l.defaultLang
}

// normalizeCode canonicalizes a bare language code for membership checks.
func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// languageSubtag extracts the language portion of a locale tag such as
// "en-US", "pt_BR.UTF-8" or "fr;q=0.8". Encoding, modifier and quality
// suffixes are stripped before parsing; when the tag does not parse as
// BCP 47, the portion before the first region separator is returned as a
// best-effort fallback.
func languageSubtag(locale string) string {
	locale = strings.TrimSpace(locale)
	for _, sep := range []string{";", ".", "@"} {
		if idx := strings.Index(locale, sep); idx != -1 {
			locale = locale[:idx]
		}
	}
	if locale == "" {
		return ""
	}

	normalized := strings.ReplaceAll(locale, "_", "-")
	if tag, err := language.Parse(normalized); err == nil {
		base, _ := tag.Base()
		return base.String()
	}

	if idx := strings.Index(normalized, "-"); idx != -1 {
		normalized = normalized[:idx]
	}
	return strings.ToLower(normalized)
}
