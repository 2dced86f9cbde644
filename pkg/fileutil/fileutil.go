// =============================================================================
// I&C Cargo Billing Tool - File Utilities
// =============================================================================
//
// Output folder and filename helpers shared by the pipeline. Every run writes
// into a freshly created timestamped folder so successive runs never clobber
// each other.
//
// =============================================================================

package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// maxFilenameLen caps sanitized name fragments so full paths stay inside
// common filesystem limits.
const maxFilenameLen = 180

var unsafeChars = regexp.MustCompile(`[\\/:*?"<>|]+`)

// SafeFilename strips filesystem-unsafe characters from a name fragment,
// collapses whitespace, and caps the length.
func SafeFilename(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxFilenameLen {
		s = strings.TrimSpace(s[:maxFilenameLen])
	}
	return s
}

// RunDir creates the timestamped run folder under base,
// e.g. <base>/IC_OUTPUT_20260115_093000, and returns its path.
func RunDir(base, prefix string, t time.Time) (string, error) {
	dir := filepath.Join(base, fmt.Sprintf("%s_%s", prefix, t.Format("20060102_150405")))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run folder: %w", err)
	}
	return dir, nil
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
