// Package main is the entrypoint for the h2o-operator.
package main

import (
	"context"
	"flag"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/config"
	"github.com/h2oai/h2o-kubernetes/internal/operator/controller"
	"github.com/h2oai/h2o-kubernetes/internal/orchestrator"
	"github.com/h2oai/h2o-kubernetes/internal/platform"
	"github.com/h2oai/h2o-kubernetes/internal/util/labels"
)

var (
	setupLog = ctrl.Log.WithName("setup")

	// Version is set at build time
	Version = "dev"
)

func main() {
	var (
		metricsAddr          string
		probeAddr            string
		enableLeaderElection bool
		leaderElectionID     string
		installSchema        bool
	)

	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8082", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", true, "Enable leader election for controller manager.")
	flag.StringVar(&leaderElectionID, "leader-election-id", "h2o-operator", "The name of the leader election resource.")
	flag.BoolVar(&installSchema, "install-crd", true, "Install the H2O CustomResourceDefinition on start-up when it is missing.")

	opts := zap.Options{
		Development: os.Getenv("DEBUG") == "true",
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	setupLog.Info("starting h2o-operator", "version", Version)

	restConfig := ctrl.GetConfigOrDie()
	timeouts := config.LoadTimeouts()

	// The orchestrator reads through an uncached client; the manager cache
	// only drives the watches.
	direct, err := platform.NewClientForConfig(&platform.Config{REST: restConfig}, h2ov1.Scheme)
	if err != nil {
		setupLog.Error(err, "unable to create kubernetes client")
		os.Exit(1)
	}
	orch := orchestrator.New(direct,
		orchestrator.WithTimeouts(timeouts),
		orchestrator.WithManagedBy(labels.ManagedByOperator),
	)

	if installSchema {
		ctx := ctrl.LoggerInto(context.Background(), setupLog)
		if err := orch.Registrar().EnsureInstalled(ctx, timeouts.SchemaReady); err != nil {
			setupLog.Error(err, "unable to install the H2O schema")
			os.Exit(1)
		}
	}

	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme: h2ov1.Scheme,
		Metrics: metricsserver.Options{
			BindAddress: metricsAddr,
		},
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       leaderElectionID,
		// LeaderElectionReleaseOnCancel defines if the leader should step down voluntarily
		// when the Manager ends. This requires the binary to immediately end when the
		// Manager is stopped, otherwise, this setting is unsafe.
		LeaderElectionReleaseOnCancel: true,
	})
	if err != nil {
		setupLog.Error(err, "unable to create manager")
		os.Exit(1)
	}

	if err = controller.NewH2OReconciler(
		mgr.GetClient(),
		mgr.GetScheme(),
		mgr.GetEventRecorderFor("h2o-controller"),
		controller.WithOrchestrator(orch),
		controller.WithRequeueInterval(timeouts.RequeueInterval),
	).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "H2O")
		os.Exit(1)
	}

	// Add health checks
	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
