package testutil

import (
	"embed"
	"fmt"
	"io/fs"
)

// TestdataFS holds the embedded representation samples.
//
//go:embed testdata
var TestdataFS embed.FS

// ReadTestData reads and returns the content of an embedded test file.
func ReadTestData(name string) ([]byte, error) {
	path := fmt.Sprintf("testdata/%s", name)
	data, err := fs.ReadFile(TestdataFS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data file '%s': %w", name, err)
	}
	return data, nil
}

// Samples returns the names of all embedded .repr files.
func Samples() ([]string, error) {
	names, err := fs.Glob(TestdataFS, "testdata/*.repr")
	if err != nil {
		return nil, err
	}
	for i, n := range names {
		names[i] = n[len("testdata/"):]
	}
	return names, nil
}
