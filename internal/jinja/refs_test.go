package jinja

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRefs_ModelRoundTrip(t *testing.T) {
	input := "select * from {{ ref('orders') }} o"

	refs := ExtractRefs(input)
	require.Len(t, refs, 1)

	r := refs[0]
	assert.Equal(t, RefModel, r.Kind)
	assert.Equal(t, "orders", r.Name)
	assert.Equal(t, "orders", r.Key())
	assert.Equal(t, strings.Index(input, "{{"), r.Start)
	assert.Equal(t, strings.Index(input, "}}")+2, r.End)
	assert.Equal(t, "{{ ref('orders') }}", input[r.Start:r.End])
}

func TestExtractRefs_Source(t *testing.T) {
	refs := ExtractRefs(`select * from {{ source("raw", "events") }}`)
	require.Len(t, refs, 1)

	r := refs[0]
	assert.Equal(t, RefSource, r.Kind)
	assert.Equal(t, "raw", r.Name)
	assert.Equal(t, "events", r.Table)
	assert.Equal(t, "raw.events", r.Key())
}

func TestExtractRefs_MacroCalls(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"expression call", "select {{ cents_to_dollars(amount) }} from t", []string{"cents_to_dollars"}},
		{"do statement", "{% do audit_log('x') %}", []string{"audit_log"}},
		{"dotted call", "{{ utils.star(ref('t')) }}", []string{"utils.star"}},
		{"config excluded", "{{ config(materialized='table') }}", nil},
		{"var excluded", "{{ var('start_date') }}", nil},
		{"env_var excluded", "{{ env_var('DBT_USER') }}", nil},
		{"keyword excluded", "{% if (x) %}select 1{% endif %}", nil},
		{"set excluded", "{% set (a, b) = pair %}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, r := range ExtractRefs(tt.input) {
				if r.Kind == RefMacro {
					got = append(got, r.Name)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractRefs_RefCallNotReportedAsMacro(t *testing.T) {
	refs := ExtractRefs("select * from {{ ref('orders') }}")
	require.Len(t, refs, 1)
	assert.Equal(t, RefModel, refs[0].Kind)
}

func TestExtractRefs_MultilineRef(t *testing.T) {
	input := "select * from {{\n  ref('orders')\n}}"
	refs := ExtractRefs(input)
	require.Len(t, refs, 1)
	assert.Equal(t, 14, refs[0].Start)
	assert.Equal(t, len(input), refs[0].End)
}

func TestRefContains(t *testing.T) {
	r := Ref{Start: 10, End: 20}
	assert.False(t, r.Contains(9))
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(19))
	assert.False(t, r.Contains(20))
}
