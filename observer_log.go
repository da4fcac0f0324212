package crate

import (
	"fmt"

	"go.uber.org/zap"
)

// LogObserver logs every lifecycle notification at debug level.
type LogObserver struct {
	log *zap.Logger
}

var _ Observer = (*LogObserver)(nil)

// NewLogObserver creates a LogObserver writing to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log.Named("crate")}
}

// Resolving implements Observer.
func (o *LogObserver) Resolving(id ID, lifetime Lifetime) {
	o.log.Debug("resolving",
		zap.String("id", string(id)),
		zap.Stringer("lifetime", lifetime),
	)
}

// Resolved implements Observer.
func (o *LogObserver) Resolved(id ID, lifetime Lifetime, instance any, cached bool) {
	o.log.Debug("resolved",
		zap.String("id", string(id)),
		zap.Stringer("lifetime", lifetime),
		zap.String("type", instanceType(instance)),
		zap.Bool("cached", cached),
	)
}

// Injecting implements Observer.
func (o *LogObserver) Injecting(id ID) {
	o.log.Debug("injecting", zap.String("id", string(id)))
}

// Injected implements Observer.
func (o *LogObserver) Injected(id ID, instance any) {
	o.log.Debug("injected",
		zap.String("id", string(id)),
		zap.String("type", instanceType(instance)),
	)
}

func instanceType(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
