package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCTEs_DepthMatching(t *testing.T) {
	input := "a as (select * from (select 1) b)"

	ctes := ScanCTEs(input)
	require.Contains(t, ctes, "a")

	cte := ctes["a"]
	assert.Equal(t, "a", cte.Name)
	assert.Equal(t, 0, cte.NameStart)
	assert.Equal(t, 1, cte.NameEnd)
	assert.Equal(t, "select * from (select 1) b", input[cte.BodyStart:cte.BodyEnd])
	assert.Equal(t, len(input)-1, cte.BodyEnd)
}

func TestScanCTEs_QuotedParens(t *testing.T) {
	input := `a as (select ')' as c, "x)" as d from t)`

	ctes := ScanCTEs(input)
	require.Contains(t, ctes, "a")
	assert.Equal(t, len(input)-1, ctes["a"].BodyEnd)
}

func TestScanCTEs_Unterminated(t *testing.T) {
	ctes := ScanCTEs("a as (select * from (select 1) b")
	assert.Empty(t, ctes)
}

func TestScanCTEs_WithClause(t *testing.T) {
	input := "with\n  stg as (\n    select 1\n  ),\n  final as (\n    select * from stg\n  )\nselect * from final"

	ctes := ScanCTEs(input)
	require.Len(t, ctes, 2)
	assert.Contains(t, ctes, "stg")
	assert.Contains(t, ctes, "final")

	stg := ctes["stg"]
	assert.Equal(t, "stg", input[stg.NameStart:stg.NameEnd])
	assert.Equal(t, "\n    select 1\n  ", input[stg.BodyStart:stg.BodyEnd])
}

func TestScanAliases_Basic(t *testing.T) {
	input := "select * from orders o join customers c on c.id = o.customer_id"

	aliases := ScanAliases(input)
	require.Len(t, aliases, 2)
	assert.Equal(t, "orders", aliases["o"].Target)
	assert.Equal(t, "customers", aliases["c"].Target)
	assert.Equal(t, "orders", input[aliases["o"].ExprStart:aliases["o"].ExprEnd])
}

func TestScanAliases_KeywordExclusion(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"on", "from t on"},
		{"where", "select * from t where x = 1"},
		{"bare join", "from t join u on t.id = u.id"},
		{"trailing as", "from t as"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for alias := range ScanAliases(tt.input) {
				assert.NotContains(t, aliasBlocklist, strings.ToLower(alias))
			}
			assert.NotContains(t, ScanAliases(tt.input), "on")
		})
	}

	// "from t on" binds nothing at all.
	assert.Empty(t, ScanAliases("from t on"))
}

func TestScanAliases_ExplicitAS(t *testing.T) {
	aliases := ScanAliases("from orders as o")
	require.Contains(t, aliases, "o")
	assert.Equal(t, "orders", aliases["o"].Target)
}

func TestScanAliases_TemplatedSources(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		alias  string
		target string
	}{
		{"ref call", "select * from {{ ref('stg_orders') }} o", "o", "stg_orders"},
		{"source call", "join {{ source('raw', 'events') }} as e on 1=1", "e", "raw.events"},
		{"dotted name", "from analytics.orders st", "st", "analytics.orders"},
		{"quoted name", "from `proj.ds.table` x", "x", "proj.ds.table"},
		{"dataform", "from ${self()} s", "s", "self()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aliases := ScanAliases(tt.input)
			require.Contains(t, aliases, tt.alias)
			assert.Equal(t, tt.target, aliases[tt.alias].Target)
		})
	}
}

func TestScanAliases_LastBindingWins(t *testing.T) {
	aliases := ScanAliases("select * from orders o; select * from old_orders o")
	require.Len(t, aliases, 1)
	assert.Equal(t, "old_orders", aliases["o"].Target)
}
