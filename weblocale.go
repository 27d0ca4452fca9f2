// Package weblocale resolves and renders localized content for
// server-rendered pages.
//
// A Localizer owns the localization state for exactly one document: the
// active language code and the translation dataset currently applied to it.
// It determines the language from layered preference sources (explicit query
// override, stored preference, environment locale list, configured default),
// loads the matching dataset, and writes translations, direction metadata and
// switch-control state into the document.
//
// All side effects run behind small capability interfaces (dom.Document,
// Loader, Environment), so the resolution and lookup logic can be exercised
// entirely in memory. There is no package-level state: create one Localizer
// per document, typically per request.
package weblocale

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map"

	"github.com/weblocale/weblocale/dom"
	"github.com/weblocale/weblocale/types/queue"
)

// Localizer resolves the active language for one document and keeps the
// document's rendered state in sync with it. Use New to create one; the zero
// value is not usable.
type Localizer struct {
	languages   *orderedmap.OrderedMap // code -> label, in configuration order
	defaultLang string
	rtl         map[string]struct{}

	queryParam  string
	keyAttr     string
	attrMapAttr string
	switchAttr  string

	doc    dom.Document
	loader Loader
	env    Environment
	logger *slog.Logger

	events notifier

	mu      sync.Mutex
	active  string
	dataset Dataset

	initOnce sync.Once
	initDone bool

	// Switch requests are serialized through a FIFO queue drained by a single
	// worker goroutine, so a rapid sequence of switches applies in request
	// order instead of racing on load completion.
	qmu     sync.Mutex
	qcond   *sync.Cond
	pending *queue.Q[*switchRequest]
	started bool
	closed  bool
	stopped chan struct{}
}

type switchRequest struct {
	ctx  context.Context
	code string
	done chan error
}

// New creates a Localizer from configuration functions. At least one
// supported language, a document and a loader are required; the default
// language falls back to the first configured one.
func New(configs ...ConfigureLocalizerFunc) (*Localizer, error) {
	l := &Localizer{
		languages:   orderedmap.New(),
		rtl:         make(map[string]struct{}),
		queryParam:  DefaultQueryParam,
		keyAttr:     DefaultKeyAttr,
		attrMapAttr: DefaultAttrMapAttr,
		switchAttr:  DefaultSwitchAttr,
		env:         &MemoryEnvironment{},
		logger:      slog.Default(),
		pending:     queue.New[*switchRequest](),
		stopped:     make(chan struct{}),
	}
	l.qcond = sync.NewCond(&l.qmu)

	var err error
	for _, config := range configs {
		config(l, &err)
		if err != nil {
			return nil, err
		}
	}

	if l.languages.Len() == 0 {
		return nil, ErrNoLanguages
	}
	if l.defaultLang == "" {
		l.defaultLang = l.languages.Oldest().Key.(string)
	}
	if _, ok := l.languages.Get(l.defaultLang); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefaultLanguage, l.defaultLang)
	}
	if l.doc == nil {
		return nil, ErrMissingDocument
	}
	if l.loader == nil {
		return nil, ErrMissingLoader
	}

	return l, nil
}

// Init resolves the language, loads and renders the dataset, and emits the
// ready notification. It runs exactly once; later calls are no-ops returning
// nil. Ready and change callbacks must be registered before Init to observe
// the first notification.
func (l *Localizer) Init(ctx context.Context) error {
	l.qmu.Lock()
	if l.closed {
		l.qmu.Unlock()
		return ErrClosed
	}
	l.qmu.Unlock()

	l.initOnce.Do(func() {
		code := l.resolve()
		l.applyLanguage(ctx, code)

		l.qmu.Lock()
		l.started = true
		l.qmu.Unlock()
		go l.worker()

		l.mu.Lock()
		l.initDone = true
		l.mu.Unlock()

		l.events.emitReady(code)
	})
	return nil
}

// Switch changes the active language. Unsupported codes are rejected without
// touching state; switching to the already-active code is a silent no-op.
// The switch is performed by the worker goroutine; Switch returns once it has
// been applied or when ctx is done.
func (l *Localizer) Switch(ctx context.Context, code string) error {
	code = normalizeCode(code)
	if !l.Supported(code) {
		l.logger.Error("unsupported language requested", "lang", code)
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, code)
	}

	l.mu.Lock()
	if !l.initDone {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	if code == l.active {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	req := &switchRequest{ctx: ctx, code: code, done: make(chan error, 1)}

	l.qmu.Lock()
	if l.closed {
		l.qmu.Unlock()
		return ErrClosed
	}
	l.pending.Enqueue(req)
	l.qcond.Signal()
	l.qmu.Unlock()

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting switches and waits for the worker to drain pending
// requests. It is safe to call more than once.
func (l *Localizer) Close() {
	l.qmu.Lock()
	if l.closed {
		l.qmu.Unlock()
		return
	}
	l.closed = true
	started := l.started
	l.qcond.Broadcast()
	l.qmu.Unlock()

	if started {
		<-l.stopped
	}
}

// Current returns the active language code, or "" before Init.
func (l *Localizer) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// IsRTL reports whether the active language reads right to left.
func (l *Localizer) IsRTL() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.rtl[l.active]
	return ok
}

// Supported reports whether code is in the configured language set.
func (l *Localizer) Supported(code string) bool {
	_, ok := l.languages.Get(normalizeCode(code))
	return ok
}

// Languages returns the supported codes in configuration order.
func (l *Localizer) Languages() []string {
	codes := make([]string, 0, l.languages.Len())
	for pair := l.languages.Oldest(); pair != nil; pair = pair.Next() {
		codes = append(codes, pair.Key.(string))
	}
	return codes
}

// LanguageOptions returns the supported languages with their labels, in
// configuration order, with exactly the active one flagged.
func (l *Localizer) LanguageOptions() []LanguageOption {
	active := l.Current()
	options := make([]LanguageOption, 0, l.languages.Len())
	for pair := l.languages.Oldest(); pair != nil; pair = pair.Next() {
		code := pair.Key.(string)
		options = append(options, LanguageOption{
			Code:   code,
			Label:  pair.Value.(string),
			Active: code == active,
		})
	}
	return options
}

// T resolves a dot-delimited key path against the current dataset. A missing
// key or a non-string leaf yields the path itself as a visible fallback.
func (l *Localizer) T(path string) string {
	l.mu.Lock()
	ds := l.dataset
	active := l.active
	l.mu.Unlock()

	if s, ok := ds.String(path); ok {
		return s
	}
	l.logger.Warn("missing translation", "key", path, "lang", active)
	return path
}

// OnReady registers a callback for the ready notification emitted after the
// first successful initialization. The returned function unsubscribes.
func (l *Localizer) OnReady(fn func(code string)) func() {
	return l.events.onReady(fn)
}

// OnChange registers a callback for language-changed notifications. The
// returned function unsubscribes.
func (l *Localizer) OnChange(fn func(code string)) func() {
	return l.events.onChange(fn)
}

func (l *Localizer) worker() {
	defer close(l.stopped)
	for {
		l.qmu.Lock()
		for l.pending.Len() == 0 && !l.closed {
			l.qcond.Wait()
		}
		if l.pending.Len() == 0 && l.closed {
			l.qmu.Unlock()
			return
		}
		req, _ := l.pending.Dequeue()
		l.qmu.Unlock()

		req.done <- l.performSwitch(req.ctx, req.code)
	}
}

func (l *Localizer) performSwitch(ctx context.Context, code string) error {
	l.mu.Lock()
	if code == l.active {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	if err := l.env.StorePreference(code); err != nil {
		l.logger.Warn("could not persist language preference", "lang", code, "error", err)
	}

	l.applyLanguage(ctx, code)
	l.events.emitChange(code)
	return nil
}

// applyLanguage loads the dataset for code and renders the document. On load
// failure the previous dataset stays, but the active code changes regardless:
// after a fallback load the dataset belongs to the default language while the
// active code still reports the requested one.
func (l *Localizer) applyLanguage(ctx context.Context, code string) {
	ds, loaded := l.loadDataset(ctx, code)

	l.mu.Lock()
	l.active = code
	if loaded {
		l.dataset = ds
	}
	ds = l.dataset
	l.mu.Unlock()

	l.render(ds)
	l.applyDirection(code)
	l.markSwitchControl(code)
}

// loadDataset fetches the dataset for code, retrying once with the default
// language on failure. It reports false when nothing could be loaded.
func (l *Localizer) loadDataset(ctx context.Context, code string) (Dataset, bool) {
	raw, err := l.loader.Load(ctx, code)
	if err == nil {
		return Dataset(raw), true
	}
	l.logger.Warn("dataset load failed", "lang", code, "error", err)

	if code == l.defaultLang {
		return nil, false
	}
	raw, err = l.loader.Load(ctx, l.defaultLang)
	if err != nil {
		l.logger.Warn("fallback dataset load failed", "lang", l.defaultLang, "error", err)
		return nil, false
	}
	return Dataset(raw), true
}
