package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"github.com/h2oai/h2o-kubernetes/internal/cluster"
	"github.com/h2oai/h2o-kubernetes/internal/ui/tui"
)

func TestStatus(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{}, deployedCluster()...)
	path := writeDescriptor(t, e.dir, deployedID.Name)

	require.NoError(t, Status(context.Background(), path, "", false))

	out := e.out.String()
	assert.Contains(t, out, "default/h2o-deployed")
	assert.Contains(t, out, "0/3 ready")
	assert.Contains(t, out, "h2oai/h2o-open-source-k8s:3.44.0.3")
}

func TestStatus_NotFound(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})
	path := writeDescriptor(t, e.dir, deployedID.Name)

	err := Status(context.Background(), path, "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStatus_Watch(t *testing.T) {
	orig := runStatusTUI
	t.Cleanup(func() { runStatusTUI = orig })

	e := newEnv(t, interceptor.Funcs{}, deployedCluster()...)
	path := writeDescriptor(t, e.dir, deployedID.Name)

	var got cluster.Identity
	runStatusTUI = func(ctx context.Context, id cluster.Identity, f tui.Fetcher) error {
		got = id
		h2o, sts, err := f(ctx)
		require.NoError(t, err)
		require.NotNil(t, h2o)
		require.NotNil(t, sts)
		return nil
	}

	t.Run("non-interactive falls back to one render", func(t *testing.T) {
		require.NoError(t, Status(context.Background(), path, "", true))
		assert.Empty(t, got.Name)
		assert.Contains(t, e.out.String(), "h2o-deployed")
	})

	t.Run("interactive", func(t *testing.T) {
		isInteractive = func() bool { return true }
		require.NoError(t, Status(context.Background(), path, "", true))
		assert.Equal(t, deployedID, got)
	})
}
