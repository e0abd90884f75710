package sqlcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ValidSQL(t *testing.T) {
	tests := []string{
		"select 1",
		"select id, name from users where active",
		"select * from __REF_orders       ",
		"with a as (select 1) select * from a",
	}

	for _, sql := range tests {
		assert.Nil(t, Check(sql), "expected %q to parse", sql)
	}
}

func TestCheck_InvalidSQL(t *testing.T) {
	perr := Check("select * frmo orders")
	require.NotNil(t, perr)
	assert.NotEmpty(t, perr.Message)
	assert.GreaterOrEqual(t, perr.Line, 1)
	assert.GreaterOrEqual(t, perr.Column, 1)
}

func TestCheck_PositionOnLaterLine(t *testing.T) {
	perr := Check("select\n  id,\n  frmo orders")
	require.NotNil(t, perr)
	assert.GreaterOrEqual(t, perr.Line, 1)
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		cursorpos int
		line      int
		col       int
	}{
		{"first byte", "select 1", 1, 1, 1},
		{"mid first line", "select 1", 8, 1, 8},
		{"second line", "select\n1", 8, 2, 1},
		{"past end clamps", "ab", 10, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := locate(tt.sql, tt.cursorpos)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.col, col)
		})
	}
}
