package logger

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
	gormlogger "gorm.io/gorm/logger"
)

func newGormTestLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func selectQuery() (string, int64) {
	return "SELECT * FROM sale_lines WHERE tenant_id = $1", 3
}

func TestGormLogger_TraceQuery(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Info)

	gl.Trace(context.Background(), time.Now(), selectQuery, nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "SQL Query", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "SELECT * FROM sale_lines WHERE tenant_id = $1", fields["sql"])
	assert.EqualValues(t, 3, fields["rows"])
}

func TestGormLogger_TraceError(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), selectQuery, errors.New("pq: deadlock detected"))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "SQL Error", logs.All()[0].Message)
}

func TestGormLogger_RecordNotFoundSkipped(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Error)

	gl.Trace(context.Background(), time.Now(), selectQuery, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len(), "not-found is an expected outcome, not an error")
}

func TestGormLogger_SlowQuery(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Warn)
	gl.SlowThreshold = time.Nanosecond

	begin := time.Now().Add(-time.Millisecond)
	gl.Trace(context.Background(), begin, selectQuery, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestGormLogger_SilentDropsEverything(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), selectQuery, errors.New("boom"))
	gl.Info(context.Background(), "hello")

	assert.Equal(t, 0, logs.Len())
}

func TestGormLogger_TraceCarriesRequestID(t *testing.T) {
	gl, logs := newGormTestLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	gl.Trace(ctx, time.Now(), selectQuery, nil)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newGormTestLogger(gormlogger.Info)

	silenced := gl.LogMode(gormlogger.Silent)
	require.NotSame(t, gl, silenced)
	assert.Equal(t, gormlogger.Info, gl.logLevel, "original is untouched")
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything"))
}
