package logger

import (
	"context"
	"time"

	ctxutil "github.com/centrex/auth-service/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder accumulates fields for one log entry, pre-populated
// with whatever request metadata the context carries.
type ContextLogBuilder struct {
	ctx     context.Context
	level   zapcore.Level
	fields  []zap.Field
	message string
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *ContextLogBuilder {
	clb := &ContextLogBuilder{
		ctx:     ctx,
		level:   level,
		fields:  make([]zap.Field, 0, 12),
		message: message,
	}
	clb.extractContextFields()
	return clb
}

// InfoWithContext starts an info-level entry enriched from ctx
func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

// WarnWithContext starts a warn-level entry enriched from ctx
func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

// ErrorWithContext starts an error-level entry enriched from ctx
func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}

// DebugWithContext starts a debug-level entry enriched from ctx
func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

// extractContextFields pulls request metadata out of the context
func (clb *ContextLogBuilder) extractContextFields() {
	if clb.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(clb.ctx); requestID != "" {
		clb.fields = append(clb.fields, zap.String("request_id", requestID))
	}

	if clientIP := ctxutil.GetClientIP(clb.ctx); clientIP != "" {
		clb.fields = append(clb.fields, zap.String("client_ip", clientIP))
	}

	if userAgent := ctxutil.GetUserAgent(clb.ctx); userAgent != "" {
		clb.fields = append(clb.fields, zap.String("user_agent", userAgent))
	}

	if userID, ok := ctxutil.GetUserID(clb.ctx); ok {
		clb.fields = append(clb.fields, zap.Uint("user_id", userID))
	}

	if deviceID := ctxutil.GetDeviceID(clb.ctx); deviceID != "" {
		clb.fields = append(clb.fields, zap.String("device_id", deviceID))
	}

	if module := ctxutil.GetModule(clb.ctx); module != "" {
		clb.fields = append(clb.fields, zap.String("module", module))
	}

	if function := ctxutil.GetFunction(clb.ctx); function != "" {
		clb.fields = append(clb.fields, zap.String("function", function))
	}
}

// Field methods
func (clb *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.String(key, value))
	return clb
}

func (clb *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Int(key, value))
	return clb
}

func (clb *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Int64(key, value))
	return clb
}

func (clb *ContextLogBuilder) Uint(key string, value uint) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Uint(key, value))
	return clb
}

func (clb *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Bool(key, value))
	return clb
}

func (clb *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	clb.fields = append(clb.fields, zap.Duration("duration", value))
	return clb
}

func (clb *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	if err != nil {
		clb.fields = append(clb.fields, zap.Error(err))
	}
	return clb
}

// Log emits the accumulated entry on the global logger
func (clb *ContextLogBuilder) Log() {
	if Logger == nil {
		return
	}

	switch clb.level {
	case zapcore.DebugLevel:
		Logger.Debug(clb.message, clb.fields...)
	case zapcore.InfoLevel:
		Logger.Info(clb.message, clb.fields...)
	case zapcore.WarnLevel:
		Logger.Warn(clb.message, clb.fields...)
	case zapcore.ErrorLevel:
		Logger.Error(clb.message, clb.fields...)
	}
}
