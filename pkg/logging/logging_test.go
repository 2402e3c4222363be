package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{" warn ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New("loud")
	assert.Error(t, err)
}

func observed(level logger.LogLevel) (logger.Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core)).LogMode(level), logs
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	l, logs := observed(logger.Silent)

	l.Info(context.Background(), "hello %s", "world")
	l.Error(context.Background(), "bad")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_TraceStatement(t *testing.T) {
	l, logs := observed(logger.Info)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "roles" ORDER BY id`, 2
	}, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "sql select", entry.Message)
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, int64(2), entry.ContextMap()["rows"])
}

func TestGormLogger_TraceError(t *testing.T) {
	l, logs := observed(logger.Error)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `INSERT INTO "user_roles" ...`, 0
	}, errors.New("duplicate key"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "sql insert failed", logs.All()[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestGormLogger_RecordNotFoundIsNotAnError(t *testing.T) {
	l, logs := observed(logger.Error)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return `SELECT * FROM "user_roles"`, 0
	}, gorm.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, logs := observed(logger.Warn)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "DELETE FROM users", 3
	}, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "sql delete slow", logs.All()[0].Message)
}

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger(zap.NewNop())
	loud := base.LogMode(logger.Info)

	assert.Equal(t, logger.Silent, base.LogLevel)
	assert.Equal(t, logger.Info, loud.(*GormLogger).LogLevel)
}
