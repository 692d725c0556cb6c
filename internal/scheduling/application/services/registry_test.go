package services_test

import (
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRegistry_HasFourBuiltins(t *testing.T) {
	registry := services.NewDefaultRegistry()
	assert.ElementsMatch(t, []domain.Algorithm{domain.Greedy, domain.GA, domain.SA, domain.CSP}, registry.Algorithms())
}

func TestRegistry_GetUnknownAlgorithm(t *testing.T) {
	registry := services.NewRegistry()
	_, _, err := registry.Get(domain.Algorithm("nope"))
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}

func TestRegistry_GetReturnsRegisteredSolver(t *testing.T) {
	registry := services.NewRegistry()
	solver := services.NewGreedySolver()
	registry.Register(solver, false)

	got, isPlugin, err := registry.Get(domain.Greedy)
	require.NoError(t, err)
	assert.False(t, isPlugin)
	assert.Equal(t, domain.Greedy, got.Algorithm())
}
