package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLevelRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		assert.Equal(t, l, fromZapLevel(toZapLevel(l)))
	}
}

func TestSetLevel(t *testing.T) {
	l := NewNop()
	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())

	child := l.With(String("component", "physics"))
	assert.Equal(t, LevelDebug, child.GetLevel())
}

func TestLoggersAreIndependent(t *testing.T) {
	first := NewWithEncoding(LevelInfo, "json")
	second := NewWithEncoding(LevelWarn, "console")

	first.SetLevel(LevelError)
	assert.Equal(t, LevelError, first.GetLevel())
	assert.Equal(t, LevelWarn, second.GetLevel())
}

func TestFieldConversion(t *testing.T) {
	err := errors.New("boom")
	fields := toZapFields(
		Bool("b", true),
		Duration("d", time.Second),
		Float64("f", 1.5),
		Int("i", 3),
		String("s", "x"),
		Strings("ss", []string{"a"}),
		Uint64("u", 7),
		Error(err),
		Any("a", struct{}{}),
	)
	require.Len(t, fields, 9)
	assert.Equal(t, zap.Bool("b", true), fields[0])
	assert.Equal(t, zap.NamedError("error", err), fields[7])
	assert.NotPanics(t, func() { toZapFields(Error(nil)) })
}
