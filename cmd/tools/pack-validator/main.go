// cmd/tools/pack-validator/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/validation"
	"github.com/ben3683914/maskhot-sub000/internal/content"
	"github.com/ben3683914/maskhot-sub000/pkg/packmeta"
)

func main() {
	packDir := flag.String("pack", "", "Path to the content pack directory")
	manifestPath := flag.String("manifest", "", "Path to the pack manifest (default <pack>/manifest.json)")
	quiet := flag.Bool("quiet", false, "Only print failures")
	flag.Parse()

	if *packDir == "" {
		fmt.Fprintln(os.Stderr, "Error: -pack is required")
		flag.Usage()
		os.Exit(1)
	}

	failures := 0
	report := func(format string, args ...interface{}) {
		failures++
		fmt.Printf("FAIL  "+format+"\n", args...)
	}
	ok := func(format string, args ...interface{}) {
		if !*quiet {
			fmt.Printf("ok    "+format+"\n", args...)
		}
	}

	// Manifest, when present
	mp := *manifestPath
	if mp == "" {
		mp = filepath.Join(*packDir, "manifest.json")
	}
	if raw, err := os.ReadFile(mp); err == nil {
		result, err := validation.ValidatePack(validation.KindManifest, raw)
		switch {
		case err != nil:
			report("manifest: %v", err)
		case !result.Valid:
			for _, v := range result.Errors {
				report("manifest %s: %s", v.Field, v.Message)
			}
		default:
			ok("manifest schema")
		}
		if m, err := packmeta.Load(mp); err != nil {
			report("manifest: %v", err)
		} else if err := m.Validate(); err != nil {
			report("%v", err)
		} else {
			ok("manifest %s (schema v%d)", m.Name, m.SchemaVersion)
		}
	} else if !*quiet {
		fmt.Println("note  no manifest found, validating files only")
	}

	// Per-file schema validation with path-bearing violations
	kinds := map[string]validation.PackKind{
		"traits.json":     validation.KindTraits,
		"candidates.json": validation.KindCandidates,
		"posts.json":      validation.KindPosts,
	}
	for name, kind := range kinds {
		raw, err := os.ReadFile(filepath.Join(*packDir, name))
		if err != nil {
			report("%s: %v", name, err)
			continue
		}
		result, err := validation.ValidatePack(kind, raw)
		if err != nil {
			report("%s: %v", name, err)
			continue
		}
		if !result.Valid {
			for _, v := range result.Errors {
				report("%s %s: %s", name, v.Field, v.Message)
			}
			continue
		}
		ok("%s schema", name)
	}

	// Full load resolves every trait reference
	if failures == 0 {
		loader := content.NewFileLoader(config.ContentConfig{Dir: *packDir}, nil, logger.NewNoOpLogger())
		store, err := loader.Load(context.Background())
		if err != nil {
			report("resolution: %v", err)
		} else {
			ok("resolved %d traits, %d candidates, %d posts",
				len(store.Traits()), len(store.Candidates()), len(store.Posts()))
		}
	}

	if failures > 0 {
		fmt.Printf("pack invalid: %d failure(s)\n", failures)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Println("pack valid")
	}
}
