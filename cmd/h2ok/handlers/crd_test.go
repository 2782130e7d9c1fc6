package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
)

func TestCRDPrint(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})

	require.NoError(t, CRDPrint())

	out := e.out.String()
	assert.Contains(t, out, "kind: CustomResourceDefinition")
	assert.Contains(t, out, "name: h2os.h2o.ai")
	assert.Contains(t, out, "group: h2o.ai")
}

func TestCRDStatus(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})

	require.NoError(t, CRDStatus(context.Background(), ""))
	assert.Equal(t, "h2os.h2o.ai: installed\n", e.out.String())
}

func TestCRDInstall_AlreadyAccepted(t *testing.T) {
	newEnv(t, interceptor.Funcs{})
	assert.NoError(t, CRDInstall(context.Background(), ""))
}

func TestCRDUninstall(t *testing.T) {
	e := newEnv(t, interceptor.Funcs{})

	require.NoError(t, CRDUninstall(context.Background(), ""))

	err := e.kube.Get(context.Background(), client.ObjectKey{Name: h2ov1.ResourceName}, &apiextensionsv1.CustomResourceDefinition{})
	assert.True(t, platform.IsNotFound(err))

	e.out.Reset()
	require.NoError(t, CRDStatus(context.Background(), ""))
	assert.Equal(t, "h2os.h2o.ai: not installed\n", e.out.String())
}
