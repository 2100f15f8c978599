package jsonfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func Test_Write_CreatesParentAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	if err := Write(path, sample{Name: "a", Items: []string{"x", "y"}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got sample
	if err := Read(path, &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "a" || len(got.Items) != 2 {
		t.Errorf("unexpected round trip result: %+v", got)
	}
}

func Test_Write_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	for i := 0; i < 3; i++ {
		if err := Write(path, sample{Name: "v"}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only state.json in dir, got %d entries", len(entries))
	}
}

func Test_Read_MissingFile(t *testing.T) {
	var got sample
	err := Read(filepath.Join(t.TempDir(), "absent.json"), &got)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func Test_Read_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var got sample
	err := Read(path, &got)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}
