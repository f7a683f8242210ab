package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func makeFiles(n int) []ConvertibleFile {
	files := make([]ConvertibleFile, n)
	for i := range files {
		files[i] = ConvertibleFile{Path: fmt.Sprintf("/in/%03d.png", i)}
	}
	return files
}

func TestCheckBatch(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		limit   int
		wantErr bool
	}{
		{"empty", 0, MaxBatchSize, false},
		{"one", 1, MaxBatchSize, false},
		{"at_limit", 500, MaxBatchSize, false},
		{"over_limit", 501, MaxBatchSize, true},
		{"far_over", 1200, MaxBatchSize, true},
		{"default_limit", 501, 0, true},
		{"custom_limit", 4, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := makeFiles(tt.count)
			got, err := CheckBatch(files, tt.limit)

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CheckBatch(%d) error = %v", tt.count, err)
				}
				if len(got) != tt.count {
					t.Errorf("CheckBatch(%d) returned %d files, want all", tt.count, len(got))
				}
				return
			}

			var tooMany *TooManyFilesError
			if !errors.As(err, &tooMany) {
				t.Fatalf("CheckBatch(%d) error = %v, want *TooManyFilesError", tt.count, err)
			}
			if tooMany.Count != tt.count {
				t.Errorf("Count = %d, want %d", tooMany.Count, tt.count)
			}
			if !errors.Is(err, ErrTooManyFiles) {
				t.Error("errors.Is(err, ErrTooManyFiles) = false")
			}
			if got != nil {
				t.Errorf("rejected batch returned %d files, want none", len(got))
			}
		})
	}
}

func TestTooManyFilesError_Message(t *testing.T) {
	err := &TooManyFilesError{Count: 612, Max: 500}
	want := "too many files: 612 selected, maximum is 500"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPrepare_RejectsOversizedBatchBeforeConverting(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 6; i++ {
		touch(t, dir, fmt.Sprintf("img%d.png", i))
	}

	codec := &fakeCodec{}
	files, err := Prepare([]string{dir}, 5)
	if err == nil {
		Run(context.Background(), files, "", codec, nil)
	}
	if !errors.Is(err, ErrTooManyFiles) {
		t.Fatalf("Prepare error = %v, want ErrTooManyFiles", err)
	}
	var tooMany *TooManyFilesError
	if errors.As(err, &tooMany) && tooMany.Count != 6 {
		t.Errorf("Count = %d, want 6", tooMany.Count)
	}
	if codec.decodes.Load() != 0 {
		t.Errorf("codec invoked %d times, want 0", codec.decodes.Load())
	}
}

func TestPrepare_MixedInputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "shots"), "one.png")
	touch(t, filepath.Join(dir, "shots"), "two.PNG")
	single := touch(t, dir, "single.png")
	other := touch(t, dir, "notes.md")

	files, err := Prepare([]string{single, other, filepath.Join(dir, "shots")}, MaxBatchSize)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	want := []string{"one.png", "single.png", "two.PNG"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
