package crd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/apimachinery/pkg/watch"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/waiter"
)

func accepted() *apiextensionsv1.CustomResourceDefinition {
	crd := Definition()
	crd.Status.Conditions = []apiextensionsv1.CustomResourceDefinitionCondition{
		{Type: apiextensionsv1.NamesAccepted, Status: apiextensionsv1.ConditionTrue},
	}
	return crd
}

func newRegistrar(t *testing.T, funcs interceptor.Funcs, objs ...client.Object) *Registrar {
	t.Helper()
	kube := fake.NewClientBuilder().
		WithScheme(h2ov1.Scheme).
		WithObjects(objs...).
		WithInterceptorFuncs(funcs).
		Build()
	return NewRegistrar(platform.NewClient(kube, "default"))
}

func failOnWatch(t *testing.T) interceptor.Funcs {
	return interceptor.Funcs{
		Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
			t.Error("unexpected watch")
			return nil, errors.New("unexpected watch")
		},
	}
}

func TestDefinition(t *testing.T) {
	t.Parallel()
	crd := Definition()

	assert.Equal(t, "h2os.h2o.ai", crd.Name)
	assert.Equal(t, "h2o.ai", crd.Spec.Group)
	assert.Equal(t, apiextensionsv1.NamespaceScoped, crd.Spec.Scope)
	assert.Equal(t, []string{"h2o"}, crd.Spec.Names.ShortNames)

	require.Len(t, crd.Spec.Versions, 1)
	v := crd.Spec.Versions[0]
	assert.Equal(t, "v1", v.Name)
	assert.True(t, v.Served)
	assert.True(t, v.Storage)
	require.NotNil(t, v.Subresources.Status)

	spec := v.Schema.OpenAPIV3Schema.Properties["spec"]
	assert.ElementsMatch(t, []string{"nodes", "resources"}, spec.Required)
	require.Len(t, spec.OneOf, 2)
	assert.Equal(t, h2ov1.MemoryPattern, spec.Properties["resources"].Properties["memory"].Pattern)
	assert.Equal(t, 100.0, *spec.Properties["resources"].Properties["memoryPercentage"].Maximum)
}

func TestAwaitReady_InstalledSkipsWatch(t *testing.T) {
	t.Parallel()
	r := newRegistrar(t, failOnWatch(t), Definition())

	require.NoError(t, r.AwaitReady(context.Background(), time.Second))
	assert.Equal(t, StateNamesAccepted, r.State())
}

func TestEnsureInstalled_InstalledSkipsCreate(t *testing.T) {
	t.Parallel()
	funcs := failOnWatch(t)
	funcs.Create = func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
		t.Error("unexpected create")
		return nil
	}
	r := newRegistrar(t, funcs, accepted())

	require.NoError(t, r.EnsureInstalled(context.Background(), time.Second))
	assert.Equal(t, StateNamesAccepted, r.State())
}

func TestEnsureInstalled_WaitsForNamesAccepted(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(2, false)
	fw.Modify(Definition())
	fw.Modify(accepted())

	r := newRegistrar(t, interceptor.Funcs{
		Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
			return fw, nil
		},
	})
	assert.Equal(t, StateAbsent, r.State())

	require.NoError(t, r.EnsureInstalled(context.Background(), 5*time.Second))
	assert.Equal(t, StateNamesAccepted, r.State())
	assert.True(t, r.IsInstalled(context.Background()))
}

func TestEnsureInstalled_TimesOut(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(1, false)
	fw.Modify(Definition())

	r := newRegistrar(t, interceptor.Funcs{
		Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
			return fw, nil
		},
	})

	err := r.EnsureInstalled(context.Background(), 100*time.Millisecond)
	require.Error(t, err)

	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	var tErr *waiter.TimeoutError
	assert.ErrorAs(t, err, &tErr)
	assert.Equal(t, StateTimedOut, r.State())
}

func TestAwaitReady_WatchFault(t *testing.T) {
	t.Parallel()
	r := newRegistrar(t, interceptor.Funcs{
		Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
			return nil, errors.New("connection reset")
		},
	})

	err := r.AwaitReady(context.Background(), time.Second)
	require.Error(t, err)
	assert.True(t, platform.IsPlatformError(err))
	assert.Equal(t, StateFailed, r.State())
}

func TestInstall_AlreadyExists(t *testing.T) {
	t.Parallel()
	r := newRegistrar(t, interceptor.Funcs{}, Definition())
	require.NoError(t, r.Install(context.Background()))
	assert.Equal(t, StateInstalling, r.State())
}

func TestInstall_Failure(t *testing.T) {
	t.Parallel()
	r := newRegistrar(t, interceptor.Funcs{
		Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
			return errors.New("forbidden")
		},
	})

	err := r.Install(context.Background())
	var regErr *RegistrationError
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "install", regErr.Op)
	assert.Equal(t, StateFailed, r.State())
}

func TestUninstall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := newRegistrar(t, interceptor.Funcs{}, Definition())

	require.True(t, r.IsInstalled(ctx))
	require.NoError(t, r.Uninstall(ctx))
	assert.False(t, r.IsInstalled(ctx))
	assert.Equal(t, StateAbsent, r.State())

	// A second uninstall finds nothing to delete.
	require.NoError(t, r.Uninstall(ctx))
}

func TestNamesAccepted(t *testing.T) {
	t.Parallel()
	assert.False(t, NamesAccepted(Definition()))
	assert.True(t, NamesAccepted(accepted()))

	rejected := Definition()
	rejected.Status.Conditions = []apiextensionsv1.CustomResourceDefinitionCondition{
		{Type: apiextensionsv1.NamesAccepted, Status: apiextensionsv1.ConditionFalse},
	}
	assert.False(t, NamesAccepted(rejected))
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "TimedOut", StateTimedOut.String())
	assert.Equal(t, "State(42)", State(42).String())
}
