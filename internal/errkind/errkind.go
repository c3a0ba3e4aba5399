// Package errkind classifies errors for retry and messaging decisions.
package errkind

import "errors"

const (
	KindValidation    = "validation"
	KindAuthorization = "authorization"
	KindNotFound      = "not_found"
	KindTransient     = "transient"
)

// Classifier allows errors to declare their classification. Validation
// errors are fixable locally; authorization and not_found end the session;
// transient errors are safe to retry without re-staging anything.
type Classifier interface {
	ErrorKind() string
}

// Kind extracts the classification from anywhere in the error chain.
// Unclassified errors default to transient, the only kind for which retry is
// always safe.
func Kind(err error) string {
	var classifier Classifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return KindTransient
}

// Retryable reports whether retrying the failed operation can succeed
// without the user changing anything first.
func Retryable(err error) bool {
	return Kind(err) == KindTransient
}
