// Package metrics holds the Prometheus collectors of the claim services.
package metrics

const (
	namespace = "onclick"

	statusSuccess = "success"
	statusError   = "error"
	unknownLabel  = "unknown"
)

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}

func orUnknown(v string) string {
	if v == "" {
		return unknownLabel
	}
	return v
}
