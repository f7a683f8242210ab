package convert

import (
	"errors"
	"fmt"
)

// MaxBatchSize is the largest number of files accepted in one batch
const MaxBatchSize = 500

// ErrTooManyFiles matches any *TooManyFilesError via errors.Is
var ErrTooManyFiles = errors.New("too many files")

// TooManyFilesError rejects a whole batch before any conversion starts
type TooManyFilesError struct {
	Count int
	Max   int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("too many files: %d selected, maximum is %d", e.Count, e.Max)
}

func (e *TooManyFilesError) Is(target error) bool {
	return target == ErrTooManyFiles
}

// CheckBatch returns files unchanged when len(files) <= limit.
// limit <= 0 selects MaxBatchSize. Oversized batches are rejected, never truncated.
func CheckBatch(files []ConvertibleFile, limit int) ([]ConvertibleFile, error) {
	if limit <= 0 {
		limit = MaxBatchSize
	}
	if len(files) > limit {
		return nil, &TooManyFilesError{Count: len(files), Max: limit}
	}
	return files, nil
}

// Prepare classifies raw paths, expands them and applies the batch cap
func Prepare(paths []string, limit int) ([]ConvertibleFile, error) {
	candidates := make([]CandidatePath, 0, len(paths))
	for _, p := range paths {
		candidates = append(candidates, NewCandidate(p))
	}

	files, err := Expand(candidates)
	if err != nil {
		return nil, err
	}
	return CheckBatch(files, limit)
}
