package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"majicmall/config"
	deliverycontext "majicmall/internal/delivery/context"
	"majicmall/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newCapturingLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormSlogLogger_Trace(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.SlowQueryThreshold = 50 * time.Millisecond

	t.Run("failures are logged", func(t *testing.T) {
		base, buf := newCapturingLogger()
		l := newGormSlogLogger(base, cfg)

		l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), errors.New("boom"))

		assert.Contains(t, buf.String(), "GORM query failed")
		assert.Contains(t, buf.String(), "error=boom")
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		base, buf := newCapturingLogger()
		l := newGormSlogLogger(base, cfg)

		l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 0), gorm.ErrRecordNotFound)

		assert.Empty(t, buf.String())
	})

	t.Run("slow queries use the configured threshold", func(t *testing.T) {
		base, buf := newCapturingLogger()
		l := newGormSlogLogger(base, cfg)

		l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn("SELECT * FROM stores", 3), nil)

		assert.Contains(t, buf.String(), "GORM slow query")
		assert.Contains(t, buf.String(), "slowThreshold=50ms")
	})

	t.Run("fast queries are silent outside debug", func(t *testing.T) {
		base, buf := newCapturingLogger()
		l := newGormSlogLogger(base, cfg)

		l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1", 1), nil)

		assert.Empty(t, buf.String())
	})

	t.Run("request logger is preferred", func(t *testing.T) {
		base, baseBuf := newCapturingLogger()
		reqLogger, reqBuf := newCapturingLogger()
		ctx := deliverycontext.WithLogger(context.Background(), reqLogger.With(slog.String("request_id", "r-1")))
		l := newGormSlogLogger(base, cfg)

		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 0), errors.New("boom"))

		assert.Empty(t, baseBuf.String())
		assert.Contains(t, reqBuf.String(), "request_id=r-1")
	})
}
