package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/serhataydn/viewgen/internal/validate"
)

// Report aggregates a whole validation batch. Results keep the original
// input order regardless of how validation was scheduled.
type Report struct {
	TotalGenerated    int               `json:"total_generated"`
	ValidViews        int               `json:"valid_views"`
	InvalidViews      int               `json:"invalid_views"`
	DuplicatesRemoved int               `json:"duplicates_removed"`
	SuccessRate       float64           `json:"success_rate"`
	Results           []validate.Result `json:"views"`
}

// Accepted returns the valid, non-duplicate results in batch order. Their
// SQL is the artifact handed to the execution side.
func (r *Report) Accepted() []validate.Result {
	var accepted []validate.Result
	for _, result := range r.Results {
		if result.Valid && result.DuplicateOf == "" {
			accepted = append(accepted, result)
		}
	}
	return accepted
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *Report) ExportFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return r.WriteJSON(f)
}
