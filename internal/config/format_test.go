package config

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"testing"
)

// The HTTP-facing packages share one layout with the rest of the tree.
func TestSourcesAreGofmted(t *testing.T) {
	for _, dir := range []string{".", "../middleware", "../handler"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatal(err)
		}
		if len(files) == 0 {
			t.Fatalf("no sources found in %s", dir)
		}
		for _, f := range files {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}
			got, err := format.Source(src)
			if err != nil {
				t.Fatalf("%s: %v", f, err)
			}
			if !bytes.Equal(got, src) {
				t.Errorf("%s is not gofmt formatted", f)
			}
		}
	}
}
