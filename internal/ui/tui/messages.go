// Package tui provides a Bubble Tea-based terminal view of H2O cluster status.
package tui

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
)

// StatusMsg carries the latest observed state of a cluster.
type StatusMsg struct {
	Phase      h2ov1.ClusterPhase
	Lifecycle  string
	Desired    int32
	Ready      int32
	Image      string
	Conditions []metav1.Condition
	NotFound   bool
	FetchErr   string
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }
