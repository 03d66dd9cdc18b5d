package helpers

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	require.Equal(t, logrus.DebugLevel, newLogger(&buf, "app", "development", "").GetLevel())
	require.Equal(t, logrus.InfoLevel, newLogger(&buf, "app", "production", "").GetLevel())
	require.Equal(t, logrus.WarnLevel, newLogger(&buf, "app", "production", "warn").GetLevel())

	buf.Reset()
	l := newLogger(&buf, "app", "production", "loud")
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
	require.Contains(t, buf.String(), "unknown log level")
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "a***@example.com", MaskEmail("alice@example.com"))
	require.Equal(t, "***", MaskEmail("@example.com"))
	require.Equal(t, "***", MaskEmail("nobody"))
}
