package controller

// Event reasons emitted on H2O resources.
const (
	EventReasonApplied     = "Applied"
	EventReasonTornDown    = "TornDown"
	EventReasonInvalidSpec = "InvalidSpec"
	EventReasonFailed      = "ReconcileFailed"
	EventReasonReady       = "ClusterReady"
)
