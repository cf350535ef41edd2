package idcache

import (
	"context"

	"github.com/bool64/ctxd"
	"github.com/hashicorp/go-hclog"
)

// NewHCLogger adapts hclog.Logger to be used as ctxd.Logger in configs.
//
// Fields of ctxd.AddFields are prepended to message fields.
// Important messages are logged with Info level.
func NewHCLogger(l hclog.Logger) ctxd.Logger {
	return hcLogger{l: l}
}

type hcLogger struct {
	l hclog.Logger
}

var _ ctxd.Logger = hcLogger{}

func (h hcLogger) Debug(ctx context.Context, msg string, keysAndValues ...interface{}) {
	h.l.Debug(msg, fields(ctx, keysAndValues)...)
}

func (h hcLogger) Info(ctx context.Context, msg string, keysAndValues ...interface{}) {
	h.l.Info(msg, fields(ctx, keysAndValues)...)
}

func (h hcLogger) Important(ctx context.Context, msg string, keysAndValues ...interface{}) {
	h.l.Info(msg, fields(ctx, keysAndValues)...)
}

func (h hcLogger) Warn(ctx context.Context, msg string, keysAndValues ...interface{}) {
	h.l.Warn(msg, fields(ctx, keysAndValues)...)
}

func (h hcLogger) Error(ctx context.Context, msg string, keysAndValues ...interface{}) {
	h.l.Error(msg, fields(ctx, keysAndValues)...)
}

func fields(ctx context.Context, keysAndValues []interface{}) []interface{} {
	cf := ctxd.Fields(ctx)
	if len(cf) == 0 {
		return keysAndValues
	}

	kv := make([]interface{}, 0, len(cf)+len(keysAndValues))
	kv = append(kv, cf...)

	return append(kv, keysAndValues...)
}
