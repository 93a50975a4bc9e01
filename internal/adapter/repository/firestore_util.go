package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradepost/pkg/errors"
)

// storeErr maps a Firestore write failure onto the error taxonomy.
// Transient backend conditions become retryable STORE_UNAVAILABLE so
// callers and clients know a retry is reasonable.
func storeErr(message string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errors.StoreUnavailable(message, err)
	}
	return errors.Internal(message, err)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
