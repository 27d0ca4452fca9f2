// weblocale-gen reads a translation dataset and emits a Go source file of
// typed key-path constants.
//
//	weblocale-gen -i web/locales/en.json -o internal/keys/keys.go -p keys
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/napalu/goopt/v2"

	"github.com/weblocale/weblocale/keygen"
)

type appConfig struct {
	Input   string `goopt:"short:i;desc:Dataset JSON file to read;required:true"`
	Output  string `goopt:"short:o;desc:Output Go file (stdout when empty)"`
	Package string `goopt:"short:p;desc:Package name for the generated file;default:keys"`
	Help    bool   `goopt:"short:h;desc:Show help"`
}

func main() {
	cfg := &appConfig{}
	parser, err := goopt.NewParserFromStruct(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create parser: %v\n", err)
		os.Exit(1)
	}

	if !parser.Parse(os.Args) {
		for _, parseErr := range parser.GetErrors() {
			fmt.Fprintln(os.Stderr, parseErr)
		}
		parser.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	if cfg.Help {
		parser.PrintUsageWithGroups(os.Stdout)
		return
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", cfg.Input, err)
		os.Exit(1)
	}

	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", cfg.Input, err)
		os.Exit(1)
	}

	src, err := keygen.Generate(tree, cfg.Package)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate constants: %v\n", err)
		os.Exit(1)
	}

	if cfg.Output == "" {
		os.Stdout.Write(src)
		return
	}
	if err := os.WriteFile(cfg.Output, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", cfg.Output, err)
		os.Exit(1)
	}
}
