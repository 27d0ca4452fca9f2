package weblocale

import "strings"

// render writes the dataset into the document: translation-key elements,
// attribute mappings, title and meta description. Rendering the same dataset
// twice leaves the document unchanged.
func (l *Localizer) render(ds Dataset) {
	for _, el := range l.doc.Elements(l.keyAttr) {
		key, _ := el.Attr(l.keyAttr)
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value, ok := ds.Lookup(key)
		if !ok {
			l.logger.Warn("missing translation", "key", key)
			continue
		}
		text, ok := value.(string)
		if !ok {
			// Non-string leaves carry no applicable translation.
			continue
		}
		if looksLikeMarkup(text) {
			if err := el.SetHTML(text); err != nil {
				l.logger.Warn("could not set markup content", "key", key, "error", err)
			}
		} else {
			el.SetText(text)
		}
	}

	for _, el := range l.doc.Elements(l.attrMapAttr) {
		mapping, _ := el.Attr(l.attrMapAttr)
		for _, pair := range strings.Split(mapping, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			name, key, ok := strings.Cut(pair, ":")
			name = strings.TrimSpace(name)
			key = strings.TrimSpace(key)
			if !ok || name == "" || key == "" {
				l.logger.Warn("malformed attribute mapping", "mapping", pair)
				continue
			}
			value, found := ds.Lookup(key)
			if !found {
				l.logger.Warn("missing translation", "key", key)
				continue
			}
			if s, isString := value.(string); isString {
				el.SetAttr(name, s)
			}
		}
	}

	if title, ok := ds.String(metaKey + "." + metaTitleKey); ok {
		l.doc.SetTitle(title)
	}
	if desc, ok := ds.String(metaKey + "." + metaDescriptionKey); ok {
		if !l.doc.SetMetaDescription(desc) {
			l.logger.Debug("no description meta element present")
		}
	}
}

// applyDirection sets the root lang and dir attributes and mirrors the
// direction as mutually exclusive body classes.
func (l *Localizer) applyDirection(code string) {
	dir := classLTR
	if _, ok := l.rtl[code]; ok {
		dir = classRTL
	}

	if root := l.doc.Root(); root != nil {
		root.SetAttr("lang", code)
		root.SetAttr("dir", dir)
	}
	if body := l.doc.Body(); body != nil {
		if dir == classRTL {
			body.AddClass(classRTL)
			body.RemoveClass(classLTR)
		} else {
			body.AddClass(classLTR)
			body.RemoveClass(classRTL)
		}
	}
}

// markSwitchControl flags the switch-control element whose target matches the
// active code and clears the flag on all others.
func (l *Localizer) markSwitchControl(code string) {
	for _, el := range l.doc.Elements(l.switchAttr) {
		target, _ := el.Attr(l.switchAttr)
		if normalizeCode(target) == code {
			el.AddClass(activeClass)
		} else {
			el.RemoveClass(activeClass)
		}
	}
}
