// weblocale-server serves a single marketing page localized per request: the
// page template is parsed, translated for the language resolved from the
// request (query override, cookie, Accept-Language, default) and written
// back.
package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/weblocale/weblocale"
	"github.com/weblocale/weblocale/dom/htmldoc"
	"github.com/weblocale/weblocale/httpenv"
	"github.com/weblocale/weblocale/loader"
)

type config struct {
	Addr         string   `env:"WEBLOCALE_ADDR" envDefault:":8080"`
	PageFile     string   `env:"WEBLOCALE_PAGE" envDefault:"web/index.html"`
	LocalesDir   string   `env:"WEBLOCALE_LOCALES" envDefault:"web/locales"`
	Languages    []string `env:"WEBLOCALE_LANGS" envDefault:"en,fr,ar"`
	DefaultLang  string   `env:"WEBLOCALE_DEFAULT_LANG" envDefault:"en"`
	RTLLanguages []string `env:"WEBLOCALE_RTL_LANGS" envDefault:"ar"`
	Debug        bool     `env:"WEBLOCALE_DEBUG"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:   level,
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}))

	page, err := os.ReadFile(cfg.PageFile)
	if err != nil {
		logger.Error("could not read page template", "path", cfg.PageFile, "error", err)
		os.Exit(1)
	}

	datasets := loader.NewFS(os.DirFS(cfg.LocalesDir), ".")

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		doc, err := htmldoc.Parse(bytes.NewReader(page))
		if err != nil {
			logger.Error("could not parse page template", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		visitor := httpenv.New(w, r)
		loc, err := weblocale.New(
			weblocale.WithLanguages(cfg.Languages...),
			weblocale.WithDefaultLanguage(cfg.DefaultLang),
			weblocale.WithRTL(cfg.RTLLanguages...),
			weblocale.WithDocument(doc),
			weblocale.WithLoader(datasets),
			weblocale.WithEnvironment(visitor),
			weblocale.WithLogger(logger),
		)
		if err != nil {
			logger.Error("could not create localizer", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer loc.Close()

		if err := loc.Init(r.Context()); err != nil {
			logger.Error("localization failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Persist a language chosen through the query parameter so later
		// visits keep it without the parameter.
		if picked := r.URL.Query().Get(weblocale.DefaultQueryParam); picked != "" && loc.Supported(picked) {
			if err := visitor.StorePreference(loc.Current()); err != nil {
				logger.Warn("could not persist language preference", "error", err)
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := doc.Render(w); err != nil {
			logger.Warn("could not write localized page", "error", err)
		}
		logger.Debug("served localized page", "lang", loc.Current(), "rtl", loc.IsRTL())
	})

	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
