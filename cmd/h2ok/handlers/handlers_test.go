package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/watch"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/crd"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/waiter"
)

func acceptedCRD() *apiextensionsv1.CustomResourceDefinition {
	def := crd.Definition()
	def.Status.Conditions = []apiextensionsv1.CustomResourceDefinitionCondition{
		{Type: apiextensionsv1.NamesAccepted, Status: apiextensionsv1.ConditionTrue},
	}
	return def
}

// env replaces every factory variable for one test and restores them after.
type env struct {
	kube    client.WithWatch
	dir     string
	out     *bytes.Buffer
	prompts []string
}

func newEnv(t *testing.T, funcs interceptor.Funcs, objs ...client.Object) *env {
	t.Helper()

	origClient := newPlatformClient
	origOrch := newOrchestrator
	origGen := nameGenerator
	origWd := getwd
	origIn, origOut := stdin, stdout
	origInteractive := isInteractive
	origConfirm := confirm
	t.Cleanup(func() {
		newPlatformClient = origClient
		newOrchestrator = origOrch
		nameGenerator = origGen
		getwd = origWd
		stdin, stdout = origIn, origOut
		isInteractive = origInteractive
		confirm = origConfirm
	})

	e := &env{
		kube: fake.NewClientBuilder().
			WithScheme(h2ov1.Scheme).
			WithObjects(append([]client.Object{acceptedCRD()}, objs...)...).
			WithStatusSubresource(&h2ov1.H2O{}, &appsv1.StatefulSet{}, &networkingv1.Ingress{}).
			WithInterceptorFuncs(funcs).
			Build(),
		dir: t.TempDir(),
		out: &bytes.Buffer{},
	}

	newPlatformClient = func(_, namespace string) (*platform.Client, error) {
		return platform.NewClient(e.kube, namespace), nil
	}
	newOrchestrator = func(c *platform.Client) *orchestrator.Orchestrator {
		return orchestrator.New(c, orchestrator.WithTimeouts(&config.Timeouts{
			SchemaReady:       time.Second,
			ClusterReady:      200 * time.Millisecond,
			IngressReady:      time.Second,
			RetryMaxAttempts:  2,
			RetryInitialDelay: time.Millisecond,
		}))
	}
	nameGenerator = func() string { return "h2o-generated" }
	getwd = func() (string, error) { return e.dir, nil }
	stdin = strings.NewReader("")
	stdout = e.out
	isInteractive = func() bool { return false }
	confirm = func(title string) (bool, error) {
		e.prompts = append(e.prompts, title)
		return true, nil
	}
	return e
}

func (e *env) exists(t *testing.T, obj client.Object, name string) bool {
	t.Helper()
	err := e.kube.Get(context.Background(), client.ObjectKey{Name: name, Namespace: "default"}, obj)
	if err != nil {
		require.True(t, platform.IsNotFound(err), "unexpected error: %v", err)
		return false
	}
	return true
}

func deployOpts() DeployOptions {
	return DeployOptions{
		Namespace:        "default",
		Nodes:            3,
		Memory:           "4Gi",
		CPUs:             2,
		MemoryPercentage: 50,
		Version:          "3.44.0.3",
	}
}

func TestDeploy(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})

	require.NoError(t, Deploy(context.Background(), deployOpts()))

	assert.True(t, e.exists(t, &h2ov1.H2O{}, "h2o-generated"))
	assert.True(t, e.exists(t, &appsv1.StatefulSet{}, "h2o-generated-stateful-set"))
	assert.True(t, e.exists(t, &corev1.Service{}, "h2o-generated-service"))
	assert.True(t, e.exists(t, &networkingv1.Ingress{}, "h2o-generated-ingress"))

	data, err := os.ReadFile(filepath.Join(e.dir, "h2o-generated"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: h2o-generated")
	assert.Contains(t, string(data), "namespace: default")

	assert.Contains(t, e.out.String(), "h2o-generated")
}

func TestDeploy_ExplicitName(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})
	nameGenerator = func() string {
		t.Fatal("name generator must not be called when a name is given")
		return ""
	}

	opts := deployOpts()
	opts.Name = "h2o-explicit"
	require.NoError(t, Deploy(context.Background(), opts))

	assert.True(t, e.exists(t, &h2ov1.H2O{}, "h2o-explicit"))
	assert.FileExists(t, filepath.Join(e.dir, "h2o-explicit"))
}

func TestDeploy_InvalidSpec(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})

	opts := deployOpts()
	opts.Nodes = 0
	err := Deploy(context.Background(), opts)

	var invalid *h2ov1.InvalidSpecificationError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, e.exists(t, &h2ov1.H2O{}, "h2o-generated"))
	assert.NoFileExists(t, filepath.Join(e.dir, "h2o-generated"))
}

func TestDeploy_RetriesTransportFaults(t *testing.T) {
	calls := 0
	e := newEnv(t, interceptor.Funcs{
		Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
			if _, ok := obj.(*h2ov1.H2O); ok {
				calls++
				if calls == 1 {
					return errors.New("connection reset by peer")
				}
			}
			return c.Create(ctx, obj, opts...)
		},
	})

	require.NoError(t, Deploy(context.Background(), deployOpts()))

	assert.Equal(t, 2, calls)
	assert.True(t, e.exists(t, &h2ov1.H2O{}, "h2o-generated"))
}

func TestDeploy_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	e := newEnv(t, interceptor.Funcs{
		Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
			if _, ok := obj.(*h2ov1.H2O); ok {
				calls++
				return errors.New("connection refused")
			}
			return c.Create(ctx, obj, opts...)
		},
	})

	err := Deploy(context.Background(), deployOpts())

	require.Error(t, err)
	assert.True(t, platform.IsPlatformError(err))
	assert.Equal(t, 3, calls)
	assert.NoFileExists(t, filepath.Join(e.dir, "h2o-generated"))
}

func TestDeploy_WaitTimesOut(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{
		Watch: func(_ context.Context, _ client.WithWatch, _ client.ObjectList, _ ...client.ListOption) (watch.Interface, error) {
			return watch.NewFakeWithChanSize(1, false), nil
		},
	})

	opts := deployOpts()
	opts.Wait = true
	err := Deploy(context.Background(), opts)

	var timeout *waiter.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Contains(t, err.Error(), "did not become ready")
	// The cluster was deployed, so the descriptor is kept for undeploy.
	assert.FileExists(t, filepath.Join(e.dir, "h2o-generated"))
}

func TestDeploy_DryRun(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})
	newPlatformClient = func(_, _ string) (*platform.Client, error) {
		t.Fatal("dry run must not connect to the cluster")
		return nil, nil
	}

	opts := deployOpts()
	opts.DryRun = true
	opts.Namespace = ""
	require.NoError(t, Deploy(context.Background(), opts))

	out := e.out.String()
	assert.Equal(t, 3, strings.Count(out, "---\n"))
	for _, kind := range []string{"kind: H2O", "kind: Service", "kind: StatefulSet", "kind: Ingress"} {
		assert.Contains(t, out, kind)
	}
	assert.Contains(t, out, "namespace: default")
	assert.NoFileExists(t, filepath.Join(e.dir, "h2o-generated"))
}

func TestDeployOptions_Spec(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		spec := deployOpts().Spec()
		assert.Equal(t, "3.44.0.3", spec.Version)
		assert.Nil(t, spec.CustomImage)
		require.NotNil(t, spec.Resources.MemoryPercentage)
		assert.Equal(t, int32(50), *spec.Resources.MemoryPercentage)
	})

	t.Run("custom image wins over version", func(t *testing.T) {
		opts := deployOpts()
		opts.CustomImage = "registry.example.com/h2o:custom"
		opts.CustomCommand = "/opt/start.sh"

		spec := opts.Spec()
		assert.Empty(t, spec.Version)
		require.NotNil(t, spec.CustomImage)
		assert.Equal(t, "registry.example.com/h2o:custom", spec.CustomImage.Image)
		assert.Equal(t, "/opt/start.sh", spec.CustomImage.Command)
		assert.NoError(t, spec.Validate())
	})
}
