package weblocale

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weblocale/weblocale/dom"
)

// fakeElement and fakeDoc implement the dom capability surface in memory so
// localizer behavior is testable without a parsed page.
type fakeElement struct {
	attrs   map[string]string
	text    string
	markup  string
	classes map[string]bool
}

func newFakeElement(attrs map[string]string) *fakeElement {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &fakeElement{attrs: attrs, classes: make(map[string]bool)}
}

func (e *fakeElement) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *fakeElement) SetAttr(name, value string) { e.attrs[name] = value }

func (e *fakeElement) SetText(text string) {
	e.text = text
	e.markup = ""
}

func (e *fakeElement) SetHTML(markup string) error {
	e.markup = markup
	e.text = ""
	return nil
}

func (e *fakeElement) AddClass(name string) { e.classes[name] = true }

func (e *fakeElement) RemoveClass(name string) { delete(e.classes, name) }

type fakeDoc struct {
	elements map[string][]*fakeElement
	root     *fakeElement
	body     *fakeElement
	title    string
	metaDesc string
	hasMeta  bool
}

func newFakeDoc() *fakeDoc {
	return &fakeDoc{
		elements: make(map[string][]*fakeElement),
		root:     newFakeElement(nil),
		body:     newFakeElement(nil),
		hasMeta:  true,
	}
}

func (d *fakeDoc) add(attr string, el *fakeElement) *fakeElement {
	d.elements[attr] = append(d.elements[attr], el)
	return el
}

func (d *fakeDoc) Elements(attr string) []dom.Element {
	els := make([]dom.Element, 0, len(d.elements[attr]))
	for _, el := range d.elements[attr] {
		els = append(els, el)
	}
	return els
}

func (d *fakeDoc) Root() dom.Element { return d.root }

func (d *fakeDoc) Body() dom.Element { return d.body }

func (d *fakeDoc) SetTitle(title string) { d.title = title }

func (d *fakeDoc) SetMetaDescription(content string) bool {
	if !d.hasMeta {
		return false
	}
	d.metaDesc = content
	return true
}

// stubLoader serves canned datasets and records every load.
type stubLoader struct {
	mu       sync.Mutex
	datasets map[string]map[string]any
	errs     map[string]error
	delay    time.Duration

	calls   []string
	active  int
	maxSeen int
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		datasets: map[string]map[string]any{
			"en": {
				"meta": map[string]any{"title": "English title", "description": "English description"},
				"hero": map[string]any{"title": "Hello"},
			},
			"fr": {
				"meta": map[string]any{"title": "Titre français", "description": "Description française"},
				"hero": map[string]any{"title": "Bonjour"},
			},
			"ar": {
				"meta": map[string]any{"title": "عنوان", "description": "وصف"},
				"hero": map[string]any{"title": "مرحبا"},
			},
		},
		errs: make(map[string]error),
	}
}

func (s *stubLoader) Load(_ context.Context, code string) (map[string]any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, code)
	s.active++
	if s.active > s.maxSeen {
		s.maxSeen = s.active
	}
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	s.active--
	err := s.errs[code]
	ds := s.datasets[code]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *stubLoader) loadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestLocalizer(t *testing.T, configs ...ConfigureLocalizerFunc) (*Localizer, *fakeDoc, *stubLoader) {
	t.Helper()
	doc := newFakeDoc()
	ld := newStubLoader()
	base := []ConfigureLocalizerFunc{
		WithLanguages("en", "fr", "ar"),
		WithDefaultLanguage("en"),
		WithRTL("ar"),
		WithDocument(doc),
		WithLoader(ld),
	}
	l, err := New(append(base, configs...)...)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l, doc, ld
}

func TestNewValidation(t *testing.T) {
	doc := newFakeDoc()
	ld := newStubLoader()

	t.Run("no languages", func(t *testing.T) {
		_, err := New(WithDocument(doc), WithLoader(ld))
		assert.ErrorIs(t, err, ErrNoLanguages)
	})

	t.Run("unknown default", func(t *testing.T) {
		_, err := New(WithLanguages("en"), WithDefaultLanguage("de"), WithDocument(doc), WithLoader(ld))
		assert.ErrorIs(t, err, ErrUnknownDefaultLanguage)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := New(WithLanguages("en"), WithLoader(ld))
		assert.ErrorIs(t, err, ErrMissingDocument)
	})

	t.Run("missing loader", func(t *testing.T) {
		_, err := New(WithLanguages("en"), WithDocument(doc))
		assert.ErrorIs(t, err, ErrMissingLoader)
	})

	t.Run("default falls back to first language", func(t *testing.T) {
		l, err := New(WithLanguages("fr", "en"), WithDocument(doc), WithLoader(ld))
		require.NoError(t, err)
		assert.Equal(t, []string{"fr", "en"}, l.Languages())
		require.NoError(t, l.Init(context.Background()))
		defer l.Close()
		assert.Equal(t, "fr", l.Current())
	})
}

func TestInitResolvesLoadsAndRenders(t *testing.T) {
	env := &MemoryEnvironment{Query: map[string]string{"lang": "fr"}}
	l, doc, ld := newTestLocalizer(t, WithEnvironment(env))

	var ready []string
	l.OnReady(func(code string) { ready = append(ready, code) })

	require.NoError(t, l.Init(context.Background()))

	assert.Equal(t, "fr", l.Current())
	assert.Equal(t, []string{"fr"}, ld.calls)
	assert.Equal(t, []string{"fr"}, ready)
	lang, _ := doc.root.Attr("lang")
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "Titre français", doc.title)
	assert.Equal(t, "Description française", doc.metaDesc)
}

func TestInitRunsOnce(t *testing.T) {
	l, _, ld := newTestLocalizer(t)

	readyCount := 0
	l.OnReady(func(string) { readyCount++ })

	require.NoError(t, l.Init(context.Background()))
	require.NoError(t, l.Init(context.Background()))

	assert.Equal(t, 1, ld.loadCount())
	assert.Equal(t, 1, readyCount)
}

func TestSwitchLanguage(t *testing.T) {
	env := &MemoryEnvironment{}
	l, doc, _ := newTestLocalizer(t, WithEnvironment(env))
	require.NoError(t, l.Init(context.Background()))

	var changed []string
	l.OnChange(func(code string) { changed = append(changed, code) })

	require.NoError(t, l.Switch(context.Background(), "fr"))

	assert.Equal(t, "fr", l.Current())
	assert.Equal(t, []string{"fr"}, changed)
	assert.Equal(t, "fr", env.Stored)
	lang, _ := doc.root.Attr("lang")
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "Bonjour", l.T("hero.title"))
}

func TestSwitchToActiveLanguageIsNoOp(t *testing.T) {
	l, _, ld := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	changed := 0
	l.OnChange(func(string) { changed++ })
	loads := ld.loadCount()

	require.NoError(t, l.Switch(context.Background(), "en"))

	assert.Equal(t, loads, ld.loadCount())
	assert.Zero(t, changed)
}

func TestSwitchUnsupportedLanguage(t *testing.T) {
	env := &MemoryEnvironment{}
	l, _, ld := newTestLocalizer(t, WithEnvironment(env))
	require.NoError(t, l.Init(context.Background()))
	loads := ld.loadCount()

	err := l.Switch(context.Background(), "de")

	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, "en", l.Current())
	assert.Equal(t, loads, ld.loadCount())
	assert.Empty(t, env.Stored)
}

func TestSwitchBeforeInit(t *testing.T) {
	l, _, _ := newTestLocalizer(t)
	assert.ErrorIs(t, l.Switch(context.Background(), "fr"), ErrNotInitialized)
}

func TestSwitchFallsBackToDefaultDataset(t *testing.T) {
	l, _, ld := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	ld.mu.Lock()
	ld.errs["fr"] = errors.New("boom")
	ld.mu.Unlock()

	require.NoError(t, l.Switch(context.Background(), "fr"))

	// Active code reports the requested language while the dataset fell back
	// to the default one.
	assert.Equal(t, "fr", l.Current())
	assert.Equal(t, "Hello", l.T("hero.title"))
	assert.Equal(t, []string{"en", "fr", "en"}, ld.calls)
}

func TestSwitchKeepsPriorDatasetWhenFallbackFails(t *testing.T) {
	l, _, ld := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	ld.mu.Lock()
	ld.errs["fr"] = errors.New("boom")
	ld.errs["en"] = errors.New("boom")
	ld.mu.Unlock()

	require.NoError(t, l.Switch(context.Background(), "fr"))

	assert.Equal(t, "fr", l.Current())
	assert.Equal(t, "Hello", l.T("hero.title"))
}

func TestSwitchSurvivesStorageFailure(t *testing.T) {
	env := &MemoryEnvironment{StoreErr: errors.New("storage disabled")}
	l, _, _ := newTestLocalizer(t, WithEnvironment(env))
	require.NoError(t, l.Init(context.Background()))

	require.NoError(t, l.Switch(context.Background(), "fr"))
	assert.Equal(t, "fr", l.Current())
}

func TestDirectionAttributes(t *testing.T) {
	l, doc, _ := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	require.NoError(t, l.Switch(context.Background(), "ar"))
	assert.True(t, l.IsRTL())
	dir, _ := doc.root.Attr("dir")
	assert.Equal(t, "rtl", dir)
	assert.True(t, doc.body.classes["rtl"])
	assert.False(t, doc.body.classes["ltr"])

	require.NoError(t, l.Switch(context.Background(), "fr"))
	assert.False(t, l.IsRTL())
	dir, _ = doc.root.Attr("dir")
	assert.Equal(t, "ltr", dir)
	assert.True(t, doc.body.classes["ltr"])
	assert.False(t, doc.body.classes["rtl"])
}

func TestSwitchControlIndicator(t *testing.T) {
	l, doc, _ := newTestLocalizer(t)
	en := doc.add(DefaultSwitchAttr, newFakeElement(map[string]string{DefaultSwitchAttr: "en"}))
	fr := doc.add(DefaultSwitchAttr, newFakeElement(map[string]string{DefaultSwitchAttr: "fr"}))

	require.NoError(t, l.Init(context.Background()))
	assert.True(t, en.classes[activeClass])
	assert.False(t, fr.classes[activeClass])

	require.NoError(t, l.Switch(context.Background(), "fr"))
	assert.False(t, en.classes[activeClass])
	assert.True(t, fr.classes[activeClass])
}

func TestSwitchesAreSerialized(t *testing.T) {
	l, _, ld := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	ld.mu.Lock()
	ld.delay = 10 * time.Millisecond
	ld.mu.Unlock()

	var wg sync.WaitGroup
	for _, code := range []string{"fr", "ar", "fr", "ar"} {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			_ = l.Switch(context.Background(), code)
		}(code)
	}
	wg.Wait()

	ld.mu.Lock()
	defer ld.mu.Unlock()
	assert.Equal(t, 1, ld.maxSeen, "dataset loads must never overlap")
}

func TestLanguageOptions(t *testing.T) {
	l, _, _ := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))
	require.NoError(t, l.Switch(context.Background(), "fr"))

	options := l.LanguageOptions()
	require.Len(t, options, 3)
	assert.Equal(t, []string{"en", "fr", "ar"}, []string{options[0].Code, options[1].Code, options[2].Code})

	activeCount := 0
	for _, opt := range options {
		if opt.Active {
			activeCount++
			assert.Equal(t, "fr", opt.Code)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestTranslateMissingKeyReturnsPath(t *testing.T) {
	l, _, _ := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	assert.Equal(t, "Hello", l.T("hero.title"))
	assert.Equal(t, "hero.missing", l.T("hero.missing"))
	assert.Equal(t, "hero.title.deeper", l.T("hero.title.deeper"))
	// A branch node is not an applicable translation.
	assert.Equal(t, "hero", l.T("hero"))
}

func TestUnsubscribe(t *testing.T) {
	l, _, _ := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	calls := 0
	unsubscribe := l.OnChange(func(string) { calls++ })
	unsubscribe()

	require.NoError(t, l.Switch(context.Background(), "fr"))
	assert.Zero(t, calls)
}

func TestCloseRejectsFurtherSwitches(t *testing.T) {
	l, _, _ := newTestLocalizer(t)
	require.NoError(t, l.Init(context.Background()))

	l.Close()
	assert.ErrorIs(t, l.Switch(context.Background(), "fr"), ErrClosed)
}
