package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zurustar/kame/pkg/assert"
)

func TestFindFileCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MyData.CSV")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []string{"mydata.csv", "MYDATA.CSV", "MyData.csv"}
	for _, name := range tests {
		got, err := FindFileCaseInsensitive(dir, name)
		if err != nil {
			t.Errorf("Expected to find %q, got error: %v", name, err)
			continue
		}
		if got != path {
			t.Errorf("Expected %q, got %q", path, got)
		}
	}
}

func TestFindFileCaseInsensitiveNotFound(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindFileCaseInsensitive(dir, "missing.txt"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestFindFileCaseInsensitiveFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Readme.TXT"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := FindFileCaseInsensitiveFS(os.DirFS(dir), ".", "readme.txt")
	if err != nil {
		t.Fatalf("Expected to find file, got error: %v", err)
	}
	if filepath.Base(got) != "Readme.TXT" {
		t.Errorf("Expected Readme.TXT, got %q", got)
	}
}

func TestReadWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	content := "hello, turtle\n二行目\n"

	assert.Nil(t, WriteText(path, content))
	got, err := ReadText(path)
	assert.Nil(t, err)
	assert.Equal(t, content, got)
}

func TestReadWriteTextShiftJIS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sjis.txt")
	content := "こんにちは"

	assert.Nil(t, WriteText(path, content, WithEncoding("shift-jis")))

	// Raw bytes must not be UTF-8
	raw, err := os.ReadFile(path)
	assert.Nil(t, err)
	if string(raw) == content {
		t.Error("Expected Shift-JIS bytes to differ from UTF-8")
	}

	got, err := ReadText(path, WithEncoding("shift-jis"))
	assert.Nil(t, err)
	assert.Equal(t, content, got)
}

func TestReadTextLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.txt")
	// "café" in ISO-8859-1
	if err := os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	got, err := ReadText(path, WithEncoding("latin-1"))
	assert.Nil(t, err)
	assert.Equal(t, "café", got)
}

func TestUnsupportedEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := WriteText(path, "x", WithEncoding("utf-99")); err == nil {
		t.Error("Expected error for unsupported encoding, got nil")
	}
}

func TestReadWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	rows := [][]string{
		{"name", "score"},
		{"alice", "90"},
		{"bob", "72"},
	}

	assert.Nil(t, WriteCSV(path, rows))
	got, err := ReadCSV(path)
	assert.Nil(t, err)
	assert.Equal(t, rows, got)
}

func TestReadWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	in := map[string]any{"name": "kame", "count": float64(3)}

	assert.Nil(t, WriteJSON(path, in))
	var out map[string]any
	assert.Nil(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)
}

func TestReadJSONInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	var out any
	if err := ReadJSON(path, &out); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestReadWriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	type scene struct {
		Name  string `yaml:"name"`
		Steps int    `yaml:"steps"`
	}
	in := scene{Name: "spiral", Steps: 40}

	assert.Nil(t, WriteYAML(path, in))
	var out scene
	assert.Nil(t, ReadYAML(path, &out))
	assert.Equal(t, in, out)
}
