package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frozenisback/sp-src/internal/core/domain"
)

const table = `{0:function(e,t,n){t.a=1},3:function(e,t,n){t.b=2}}`

func TestBuild_ComposesInFixedOrder(t *testing.T) {
	candidates := []domain.Candidate{{Key: 3, Priority: 1}, {Key: 0, Priority: 0}}

	script := Build(table, candidates)

	hook := strings.Index(script, "__secretHookInstalled")
	loader := strings.Index(script, "function n(id)")
	tableDef := strings.Index(script, "var __webpack_modules__ = "+table+";")
	loads := strings.Index(script, "n(3);\nn(0);\n")
	readoutIdx := strings.Index(script, "globalThis.__captures.filter")

	require.NotEqual(t, -1, hook)
	require.NotEqual(t, -1, loader)
	require.NotEqual(t, -1, tableDef)
	require.NotEqual(t, -1, loads)
	require.NotEqual(t, -1, readoutIdx)

	assert.Less(t, hook, loader)
	assert.Less(t, loader, tableDef)
	assert.Less(t, tableDef, loads)
	assert.Less(t, loads, readoutIdx)
}

func TestBuild_ForcesLoadsInCandidateOrder(t *testing.T) {
	candidates := []domain.Candidate{
		{Key: 7, Priority: 3},
		{Key: 1, Priority: 1},
		{Key: 4, Priority: 0},
	}

	script := Build(table, candidates)
	assert.Contains(t, script, "n(7);\nn(1);\nn(4);\n")
}

func TestBuild_Deterministic(t *testing.T) {
	candidates := []domain.Candidate{{Key: 0, Priority: 0}}

	first := Build(table, candidates)
	second := Build(table, candidates)

	assert.Equal(t, first, second)
}

func TestBuild_NoCandidates(t *testing.T) {
	script := Build(table, nil)

	assert.NotContains(t, script, "n(0);")
	assert.Contains(t, script, "globalThis.__captures.filter")
}

func TestBuild_TableEmbeddedVerbatim(t *testing.T) {
	weird := "{0:function(e,t,n){/* comment */t.x='}'\n}}"

	script := Build(weird, nil)
	assert.Contains(t, script, "var __webpack_modules__ = "+weird+";")
}
