package services_test

import (
	"context"
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_RunDispatchesToRegisteredSolver(t *testing.T) {
	registry := services.NewRegistry()
	registry.Register(services.NewGreedySolver(), false)
	executor := services.NewExecutor(registry, services.DefaultExecutorConfig(), nil)

	env := smallEnvironment(t)
	result, err := executor.Run(context.Background(), domain.Greedy, env, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Greedy, result.Algorithm)
}

func TestExecutor_RunUnknownAlgorithm(t *testing.T) {
	registry := services.NewRegistry()
	executor := services.NewExecutor(registry, services.DefaultExecutorConfig(), nil)

	_, err := executor.Run(context.Background(), domain.Algorithm("nope"), smallEnvironment(t), 1, 0)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
}
