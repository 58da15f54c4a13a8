package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// importsOf returns the import paths of the non-test Go files in dir.
func importsOf(t *testing.T, dir string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	imports := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			imports[entry.Name()] = append(imports[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// TestCoreImportsOnlyStdlib verifies pkg/core has no dependencies outside the
// standard library, so every layer can share its types.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, paths := range importsOf(t, ".") {
		for _, importPath := range paths {
			if strings.Contains(importPath, ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestParserImportsOnlyCore verifies pkg/parser depends on pkg/core and the
// standard library only.
func TestParserImportsOnlyCore(t *testing.T) {
	allowed := map[string]bool{
		"github.com/leapstack-labs/primitivedb/pkg/core": true,
	}
	for file, paths := range importsOf(t, "../parser") {
		for _, importPath := range paths {
			if !strings.Contains(importPath, ".") || allowed[importPath] {
				continue
			}
			t.Errorf("parser/%s imports forbidden package: %s", file, importPath)
		}
	}
}

// TestPublicPackagesDoNotImportInternal verifies pkg/... never reaches into internal/.
func TestPublicPackagesDoNotImportInternal(t *testing.T) {
	for _, dir := range []string{".", "../parser"} {
		for file, paths := range importsOf(t, dir) {
			for _, importPath := range paths {
				if strings.Contains(importPath, "/internal/") {
					t.Errorf("%s/%s imports internal package: %s", dir, file, importPath)
				}
			}
		}
	}
}
