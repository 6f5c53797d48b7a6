package aggregate

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/takak2166/wordpress2sanity/internal/logger"
)

// ErrMalformedRecord is returned when a staged file does not hold valid JSON
var ErrMalformedRecord = errors.New("malformed staged record")

// FileName returns the name of the aggregate file for a run started at t,
// e.g. sanity-import-2021-07-21-10-00-00.ndjson
func FileName(t time.Time) string {
	return "sanity-import-" + t.UTC().Format("2006-01-02-15-04-05") + ".ndjson"
}

// Aggregate walks root in lexical order and writes every staged .json record
// to w as one line, with a line break between records. It returns the number
// of records written.
func Aggregate(root string, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	count := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var line bytes.Buffer
		if err := json.Compact(&line, data); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedRecord, path, err)
		}

		if count > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := bw.Write(line.Bytes()); err != nil {
			return err
		}
		count++

		logger.Debug("Appended record", logger.Fields{"path": path})
		return nil
	})
	if err != nil {
		return count, err
	}

	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("failed to flush aggregate output: %w", err)
	}
	return count, nil
}

// ToFile aggregates root into a new file at path
func ToFile(root, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create aggregate file: %w", err)
	}

	count, err := Aggregate(root, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close aggregate file: %w", closeErr)
	}
	if err != nil {
		return count, err
	}

	logger.Info("Document files appended to import file", logger.Fields{
		"count": count,
		"file":  path,
	})
	return count, nil
}
