package fileutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteIfChangedCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteIfChanged(path, []byte("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestWriteIfChangedSkipsIdenticalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := WriteIfChanged(path, []byte("same")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	wrote, err := WriteIfChangedTracked(path, []byte("same"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wrote {
		t.Fatal("identical content must not be rewritten")
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("file was touched despite identical content")
	}
}

func TestWriteIfChangedTrackedReportsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	wrote, err := WriteIfChangedTracked(path, []byte("v1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Fatal("first write must report a change")
	}
	wrote, err = WriteIfChangedTracked(path, []byte("v2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Fatal("new content must report a change")
	}
}

func TestEncodeJSONL(t *testing.T) {
	type row struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	data, err := EncodeJSONL([]row{{"a", 1}, {"b", 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\"name\":\"a\",\"n\":1}\n{\"name\":\"b\",\"n\":2}\n"
	if string(data) != want {
		t.Fatalf("expected %q, got %q", want, data)
	}
}
