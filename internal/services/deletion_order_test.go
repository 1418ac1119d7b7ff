package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeleteOrderRespectsEveryEdge(t *testing.T) {
	order, err := deriveDeleteOrder(tenantCascadeEdges)
	require.NoError(t, err)

	pos := make(map[string]int, len(order))
	for i, table := range order {
		pos[table] = i
	}

	for _, edge := range tenantCascadeEdges {
		child, okChild := pos[edge.Child]
		parent, okParent := pos[edge.Parent]
		require.True(t, okChild, "missing table %s", edge.Child)
		require.True(t, okParent, "missing table %s", edge.Parent)
		assert.Less(t, child, parent, "%s must be deleted before %s", edge.Child, edge.Parent)
	}

	assert.Equal(t, tableCompanies, order[len(order)-1])
}

func TestDeriveDeleteOrderIsDeterministic(t *testing.T) {
	first, err := deriveDeleteOrder(tenantCascadeEdges)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := deriveDeleteOrder(tenantCascadeEdges)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDeriveDeleteOrderRejectsCycles(t *testing.T) {
	cyclic := []dependencyEdge{
		{"a", "b"},
		{"b", "c"},
		{"c", "a"},
	}

	_, err := deriveDeleteOrder(cyclic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
