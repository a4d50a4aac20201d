package model

// RemoteStatus describes the state of a payment intent as reported by the
// external provider.
type RemoteStatus string

const (
	RemoteStatusRequiresAction RemoteStatus = "REQUIRES_ACTION"
	RemoteStatusSucceeded      RemoteStatus = "SUCCEEDED"
	RemoteStatusFailed         RemoteStatus = "FAILED"
	RemoteStatusCanceled       RemoteStatus = "CANCELED"
)

// RemoteIntent encapsulates provider-side payment intent details.
type RemoteIntent struct {
	ProviderID    string
	ClientSecret  string
	Status        RemoteStatus
	TransactionID string
}
