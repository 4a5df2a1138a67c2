// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := New(types.LogConfig{}, &buf)
		require.NoError(t, err)
		defer closer.Close()

		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		logger.Debug("hidden")
		logger.WithField("page", 3).Warn("page produced no text")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `level=warning msg="page produced no text" page=3`)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := New(types.LogConfig{Level: "debug", Format: "JSON"}, &buf)
		require.NoError(t, err)
		defer closer.Close()

		logger.WithField("lines", 11).Debug("formatted document")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "formatted document", entry["msg"])
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, float64(11), entry["lines"])
	})

	t.Run("file sink", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "pdf2md.log")
		logger, closer, err := New(types.LogConfig{File: path}, &buf)
		require.NoError(t, err)

		logger.Info("converted document")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "converted document")
		assert.Contains(t, buf.String(), "converted document")
	})

	t.Run("invalid level", func(t *testing.T) {
		_, _, err := New(types.LogConfig{Level: "loud"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := New(types.LogConfig{Format: "xml"}, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})
}
