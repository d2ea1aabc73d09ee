package threatdb

import (
	"fmt"
	"os"

	"mailsift/internal/support"
)

// WriteFile renders the table and replaces path in one step. On failure no
// output file is left behind.
func WriteFile(path string, t *Table, exportName string) error {
	if err := support.WriteFileAtomic(path, Render(t, exportName)); err != nil {
		return fmt.Errorf("write threat table %s: %w", path, err)
	}
	return nil
}

// ReadFile parses a literal previously written by WriteFile.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ParseLiteral(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
