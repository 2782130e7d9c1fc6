package waiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	"github.com/h2oai/h2o-kubernetes/internal/platform"
)

func statefulSet(name string, replicas, ready int32) *appsv1.StatefulSet {
	return &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       appsv1.StatefulSetSpec{Replicas: ptr.To(replicas)},
		Status:     appsv1.StatefulSetStatus{ReadyReplicas: ready},
	}
}

func newClient(t *testing.T, w watch.Interface, watchCalls *int, objs ...client.Object) *platform.Client {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	kube := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(objs...).
		WithInterceptorFuncs(interceptor.Funcs{
			Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
				if watchCalls != nil {
					*watchCalls++
				}
				if w == nil {
					return nil, errors.New("watch not expected")
				}
				return w, nil
			},
		}).
		Build()
	return platform.NewClient(kube, "default")
}

func TestFor_AlreadySatisfiedSkipsWatch(t *testing.T) {
	t.Parallel()
	calls := 0
	c := newClient(t, nil, &calls, statefulSet("h2o-a", 2, 2))

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, time.Second)
	require.NoError(t, err)
	assert.Zero(t, calls)
	assert.Equal(t, int32(2), obj.Status.ReadyReplicas)
}

func TestFor_SatisfiedByWatchEvent(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(4, false)
	c := newClient(t, fw, nil, statefulSet("h2o-a", 3, 0))

	fw.Add(statefulSet("other", 3, 3))
	fw.Modify(statefulSet("h2o-a", 3, 1))
	fw.Modify(statefulSet("h2o-a", 3, 3))

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, int32(3), obj.Status.ReadyReplicas)
}

func TestFor_TimesOut(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(1, false)
	c := newClient(t, fw, nil, statefulSet("h2o-a", 3, 0))

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	start := time.Now()
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, 100*time.Millisecond)

	var tErr *TimeoutError
	require.ErrorAs(t, err, &tErr)
	assert.Contains(t, tErr.Resource, "h2o-a")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFor_ClosedStreamIsTimeout(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(1, false)
	c := newClient(t, fw, nil, statefulSet("h2o-a", 3, 0))
	fw.Stop()

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, 5*time.Second)

	var tErr *TimeoutError
	require.ErrorAs(t, err, &tErr)
}

func TestFor_ErrorEvent(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(1, false)
	c := newClient(t, fw, nil, statefulSet("h2o-a", 3, 0))
	fw.Error(&metav1.Status{Status: metav1.StatusFailure, Message: "gone", Reason: metav1.StatusReasonGone, Code: 410})

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, 5*time.Second)
	require.Error(t, err)
	assert.True(t, platform.IsPlatformError(err))
}

func TestFor_WatchFailure(t *testing.T) {
	t.Parallel()
	c := newClient(t, nil, nil, statefulSet("h2o-a", 3, 0))

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, time.Second)
	require.Error(t, err)
	assert.True(t, platform.IsPlatformError(err))
}

func TestFor_CancelledContext(t *testing.T) {
	t.Parallel()
	fw := watch.NewFakeWithChanSize(1, false)
	c := newClient(t, fw, nil, statefulSet("h2o-a", 3, 0))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	err := For(ctx, c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatefulSetReady(t *testing.T) {
	t.Parallel()
	assert.False(t, StatefulSetReady(statefulSet("a", 3, 2)))
	assert.True(t, StatefulSetReady(statefulSet("a", 3, 3)))

	stale := statefulSet("a", 1, 1)
	stale.Generation = 2
	stale.Status.ObservedGeneration = 1
	assert.False(t, StatefulSetReady(stale))
}

func TestIngressHasAddress(t *testing.T) {
	t.Parallel()
	ing := &networkingv1.Ingress{}
	assert.False(t, IngressHasAddress(ing))

	ing.Status.LoadBalancer.Ingress = []networkingv1.IngressLoadBalancerIngress{{}}
	assert.False(t, IngressHasAddress(ing))

	ing.Status.LoadBalancer.Ingress[0].IP = "10.0.0.1"
	assert.True(t, IngressHasAddress(ing))
}

func TestFor_ServerCloseDoesNotCutDeadlineShort(t *testing.T) {
	t.Parallel()
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))

	var requested int64
	kube := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(statefulSet("h2o-a", 3, 0)).
		WithInterceptorFuncs(interceptor.Funcs{
			Watch: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) (watch.Interface, error) {
				lo := &client.ListOptions{}
				lo.ApplyOptions(opts)
				require.NotNil(t, lo.Raw)
				require.NotNil(t, lo.Raw.TimeoutSeconds)
				requested = *lo.Raw.TimeoutSeconds

				// The API server ends the stream once TimeoutSeconds have passed.
				fw := watch.NewFakeWithChanSize(1, false)
				time.AfterFunc(time.Duration(requested)*time.Second, fw.Stop)
				return fw, nil
			},
		}).
		Build()
	c := platform.NewClient(kube, "default")

	const timeout = 1200 * time.Millisecond
	obj := &appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Name: "h2o-a", Namespace: "default"}}
	start := time.Now()
	err := For(context.Background(), c, obj, &appsv1.StatefulSetList{}, StatefulSetReady, timeout)
	elapsed := time.Since(start)

	var tErr *TimeoutError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, int64(2), requested)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.GreaterOrEqual(t, tErr.Elapsed, timeout)
}

func TestServerTimeout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		timeout time.Duration
		want    int64
	}{
		{100 * time.Millisecond, 1},
		{time.Second, 1},
		{1900 * time.Millisecond, 2},
		{2 * time.Second, 2},
		{90*time.Second + time.Millisecond, 91},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, serverTimeout(tt.timeout), tt.timeout.String())
	}
}
