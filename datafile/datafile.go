// Package datafile reads and writes the files that tests take their data from.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// ReadJSONFile decodes a whole JSON file into a value of type T.
func ReadJSONFile[T any](path string) (T, error) {
	var ret T
	data, err := os.ReadFile(path)
	if err != nil {
		return ret, fmt.Errorf("failed to read JSON file at %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &ret); err != nil {
		return ret, fmt.Errorf("failed to read JSON file at %s: %w", path, err)
	}
	return ret, nil
}

// ReadJSONKey decodes one value out of a JSON file. The key is a gjson path, so "loginValid" and
// "blogPosts.0.title" both work.
func ReadJSONKey[T any](path, key string) (T, error) {
	var ret T
	data, err := os.ReadFile(path)
	if err != nil {
		return ret, fmt.Errorf("failed to read JSON file at %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return ret, fmt.Errorf("failed to read JSON file at %s: malformed JSON", path)
	}
	value := gjson.GetBytes(data, key)
	if !value.Exists() {
		return ret, fmt.Errorf("key %q not found in %s", key, path)
	}
	if err := json.Unmarshal([]byte(value.Raw), &ret); err != nil {
		return ret, fmt.Errorf("failed to decode key %q in %s: %w", key, path, err)
	}
	return ret, nil
}

func ReadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file at %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to write file at %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file at %s: %w", path, err)
	}
	return nil
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// ReadExcelCell returns the text of one cell in a workbook. Rows and columns are numbered from 1.
func ReadExcelCell(dir, fileName, sheet string, row, col int) (string, error) {
	path := filepath.Join(dir, fileName)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook at %s: %w", path, err)
	}
	defer f.Close()

	if index, err := f.GetSheetIndex(sheet); err != nil || index < 0 {
		return "", fmt.Errorf("sheet %q not found in %s", sheet, path)
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	value, err := f.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s of sheet %q in %s: %w", cell, sheet, path, err)
	}
	return value, nil
}
