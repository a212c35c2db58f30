package fileutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Option はローダーのオプションを設定する関数型
type Option func(*loaderConfig)

type loaderConfig struct {
	encoding string
}

// WithEncoding はテキストのエンコーディングを設定する
// 対応: utf-8（デフォルト）, shift-jis, euc-jp, latin-1
func WithEncoding(name string) Option {
	return func(c *loaderConfig) {
		c.encoding = name
	}
}

func applyOptions(opts []Option) *loaderConfig {
	c := &loaderConfig{encoding: "utf-8"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "shift-jis", "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "euc-jp":
		return japanese.EUCJP, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}

// decodeReader はエンコーディングに応じたUTF-8変換リーダーを返す
func decodeReader(r io.Reader, encName string) (io.Reader, error) {
	enc, err := lookupEncoding(encName)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// encodeWriter はエンコーディングに応じたUTF-8からの変換ライターを返す
func encodeWriter(w io.Writer, encName string) (io.Writer, error) {
	enc, err := lookupEncoding(encName)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return w, nil
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

// ReadText はテキストファイル全体を読み込む
func ReadText(path string, opts ...Option) (string, error) {
	c := applyOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := decodeReader(f, c.encoding)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteText はテキストファイルを書き込む
func WriteText(path, content string, opts ...Option) error {
	c := applyOptions(opts)

	var buf bytes.Buffer
	w, err := encodeWriter(&buf, c.encoding)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("failed to encode text: %w", err)
	}
	if closer, ok := w.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to encode text: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadCSV はCSVファイルを行列として読み込む
func ReadCSV(path string, opts ...Option) ([][]string, error) {
	c := applyOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r, err := decodeReader(f, c.encoding)
	if err != nil {
		return nil, err
	}
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}
	return rows, nil
}

// WriteCSV は行列をCSVファイルとして書き込む
func WriteCSV(path string, rows [][]string, opts ...Option) error {
	c := applyOptions(opts)

	var buf bytes.Buffer
	w, err := encodeWriter(&buf, c.encoding)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to encode CSV: %w", err)
	}
	if closer, ok := w.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to encode CSV: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON はJSONファイルをvにデコードする
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON %s: %w", path, err)
	}
	return nil
}

// WriteJSON はvをインデント付きJSONとして書き込む
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadYAML はYAMLファイルをvにデコードする
func ReadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}
	return nil
}

// WriteYAML はvをYAMLとして書き込む
func WriteYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
