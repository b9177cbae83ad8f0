package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "production")

	l.Debug("hidden")
	l.Info("order placed", "order_id", "abc")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "order placed", rec["msg"])
	assert.Equal(t, "abc", rec["order_id"])
}

func TestBuildLocalEmitsDebugText(t *testing.T) {
	var buf bytes.Buffer
	l := build(&buf, "local")

	l.Debug("cache miss", "key", "foods:all")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "key=foods:all")
}
