package convert

import (
	"path/filepath"
	"testing"
)

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		outputDir string
		want      string
	}{
		{"explicit_dir_upper_ext", "/a/b/photo.PNG", "/out", "/out/photo.jpg"},
		{"beside_input", "/a/b/photo.png", "", "/a/b/photo.jpg"},
		{"dots_in_name", "/a/screen.shot.2024.png", "/out", "/out/screen.shot.2024.jpg"},
		{"trailing_slash", "/a/x.png", "/out/", "/out/x.jpg"},
		{"spaces", "/a/my photo.png", "/o d", "/o d/my photo.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveOutput(ConvertibleFile{Path: filepath.FromSlash(tt.input)}, filepath.FromSlash(tt.outputDir))
			want := filepath.FromSlash(tt.want)
			if got.Path != want {
				t.Errorf("ResolveOutput(%q, %q) = %q, want %q", tt.input, tt.outputDir, got.Path, want)
			}
		})
	}
}

func TestFindCollisions(t *testing.T) {
	files := filesIn("/a/x.png", "/b/x.png", "/a/y.png", "/c/X.png")

	shared := FindCollisions(files, "/out")
	if len(shared) != 1 {
		t.Fatalf("got %d collisions, want 1: %v", len(shared), shared)
	}
	inputs := shared[filepath.FromSlash("/out/x.jpg")]
	want := []string{"/a/x.png", "/b/x.png"}
	if !sliceEqual(inputs, want) {
		t.Errorf("got %v, want %v", inputs, want)
	}

	// Beside each input the same names do not collide
	if got := FindCollisions(files, ""); len(got) != 0 {
		t.Errorf("got %v, want no collisions", got)
	}
}
