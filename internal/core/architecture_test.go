package core

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyZaplogImportsZap ensures the zap dependency stays behind the
// internal/zaplog adapter. Everything else must log through the core.Logger
// interface.
func TestOnlyZaplogImportsZap(t *testing.T) {
	const zapPrefix = "go.uber.org/zap"
	const allowedPrefix = "liminalcore/internal/zaplog"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "liminalcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.PkgPath, allowedPrefix) {
			continue
		}
		for importPath := range pkg.Imports {
			if importPath == zapPrefix || strings.HasPrefix(importPath, zapPrefix+"/") {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden zap import outside the adapter: %s", v)
		}
		t.Fatalf("found %d forbidden zap imports", len(violations))
	}
}

// TestDomainDoesNotImportCore guards the layering between the entity model
// and the service layer.
func TestDomainDoesNotImportCore(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "liminalcore/pkg/domain")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			if strings.HasPrefix(importPath, "liminalcore/internal") {
				t.Fatalf("pkg/domain imports %s", importPath)
			}
		}
	}
}
