package crate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func TestLogObserver(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	c := New(WithObserver(NewLogObserver(zap.New(core))))

	require.NoError(t, c.Singleton("svc", stringFactory("v")))

	_, err := c.Get("svc")
	require.NoError(t, err)

	resolving := logs.FilterMessage("resolving").All()
	require.Len(t, resolving, 1)
	assert.Equal(t, "crate", resolving[0].LoggerName)
	assert.Equal(t, "svc", resolving[0].ContextMap()["id"])
	assert.Equal(t, "singleton", resolving[0].ContextMap()["lifetime"])

	resolved := logs.FilterMessage("resolved").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "string", resolved[0].ContextMap()["type"])
	assert.Equal(t, true, resolved[0].ContextMap()["cached"])
}

func TestContainerLogger(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	c := New(WithLogger(zap.New(core)))

	require.NoError(t, c.Bind("svc", stringFactory("v")))
	require.NoError(t, c.Bind("failing", func(Resolver) (any, error) { return nil, nil }))

	_, err := c.Get("failing")
	require.Error(t, err)

	c.ClearScoped()
	c.Unset("svc")

	assert.Equal(t, 2, logs.FilterMessage("entry registered").Len())
	assert.Equal(t, 1, logs.FilterMessage("resolution failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("scoped instances cleared").Len())
	assert.Equal(t, 1, logs.FilterMessage("entry removed").Len())
}

func TestNewLogObserver_NilLogger(t *testing.T) {
	obs := NewLogObserver(nil)

	assert.NotPanics(t, func() {
		obs.Injecting("svc")
		obs.Injected("svc", nil)
	})
}
