package cmd

import (
	"path/filepath"
	"testing"
)

func seedFile(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join("..", "..", "..", "testdata", "seed", name)
}

// TestBuildValidPrograms mirrors the teacher's TestValidTypeUsage shape:
// every listed program set is expected to resolve, hierarchy-check, and
// type-check cleanly end to end through the cobra build command.
func TestBuildValidPrograms(t *testing.T) {
	cases := []struct {
		name  string
		files []string
	}{
		{"Counter", []string{seedFile(t, "Counter.java")}},
		{"ShapeAndSquare", []string{seedFile(t, "Shape.java"), seedFile(t, "Square.java")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := runBuild(nil, tc.files); err != nil {
				t.Fatalf("runBuild(%v) returned error: %v", tc.files, err)
			}
		})
	}
}

// TestBuildMissingFile mirrors the teacher's TestTypeErrorDetection shape:
// a build that cannot even read its input fails rather than silently
// succeeding.
func TestBuildMissingFile(t *testing.T) {
	err := runBuild(nil, []string{seedFile(t, "DoesNotExist.java")})
	if err == nil {
		t.Fatal("expected an error for a nonexistent source file, got nil")
	}
}
