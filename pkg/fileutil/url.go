package fileutil

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultFetchTimeout はURLフェッチのデフォルトタイムアウト
const DefaultFetchTimeout = 30 * time.Second

var fetchClient = &http.Client{Timeout: DefaultFetchTimeout}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status for %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return data, nil
}

// FetchText はURLからテキストを取得する
func FetchText(ctx context.Context, url string) (string, error) {
	data, err := fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchJSON はURLからJSONを取得してvにデコードする
func FetchJSON(ctx context.Context, url string, v any) error {
	data, err := fetch(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", url, err)
	}
	return nil
}

// FetchCSV はURLからCSVを取得して行列として返す
func FetchCSV(ctx context.Context, url string) ([][]string, error) {
	data, err := fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV from %s: %w", url, err)
	}
	return rows, nil
}
