package crate

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, ID("*github.com/xraph/crate.Basic"), Key[*Basic]())
	assert.Equal(t, ID("github.com/xraph/crate.Basic"), Key[Basic]())
	assert.Equal(t, ID("io.Writer"), Key[io.Writer]())
	assert.Equal(t, ID("time.Time"), Key[time.Time]())
	assert.Equal(t, ID("int"), Key[int]())
	assert.Equal(t, ID("[]string"), Key[[]string]())
	assert.Equal(t, ID("github.com/xraph/crate.Filesystem"), Key[Filesystem]())
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, Key[*Basic](), KeyOf(&Basic{}))
	assert.Equal(t, Key[time.Time](), KeyOf(time.Now()))
	assert.Equal(t, ID("<nil>"), KeyOf(nil))
}
