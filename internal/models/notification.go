package models

type PermissionState string

const (
	PermissionUnsupported PermissionState = "unsupported"
	PermissionDefault     PermissionState = "default"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
)

type RequestOutcome string

const (
	OutcomeGranted RequestOutcome = "granted"
	OutcomeDenied  RequestOutcome = "denied"
	OutcomeError   RequestOutcome = "error"
)

// PermissionResult is the three-outcome answer to a permission request.
// Message is the user-facing acknowledgment for the outcome.
type PermissionResult struct {
	Outcome RequestOutcome `json:"outcome"`
	Message string         `json:"message"`
}
