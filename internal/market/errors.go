package market

import (
	"errors"
	"fmt"

	"github.com/hjmartin/autobidder/internal/model"
)

// Error is a classified marketplace failure.
type Error struct {
	Kind   model.ErrorKind
	Reason string
	Code   int // HTTP status, 0 when not applicable
}

func (e *Error) Error() string {
	return fmt.Sprintf("market: %s: %s (%d)", e.Kind, e.Reason, e.Code)
}

// IsSessionExpired reports whether err is an authentication failure.
func IsSessionExpired(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == model.ErrSessionExpired
}

// Classify returns the error kind for err. Unclassified errors (network
// failures, malformed responses) count as transient.
func Classify(err error) model.ErrorKind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return model.ErrTransient
}

// Report converts err into the message shape workers forward upstream.
func Report(err error) model.ErrorReport {
	var me *Error
	if errors.As(err, &me) {
		return model.ErrorReport{Kind: me.Kind, Detail: me.Reason, Code: me.Code}
	}
	return model.ErrorReport{Kind: model.ErrTransient, Detail: err.Error()}
}

// classifyStatus maps an HTTP status to an error kind.
func classifyStatus(code int) model.ErrorKind {
	switch code {
	case 401:
		return model.ErrSessionExpired
	case 403, 461:
		return model.ErrPermissionDenied
	default:
		return model.ErrTransient
	}
}
