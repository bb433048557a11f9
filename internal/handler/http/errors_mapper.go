package http

import (
	"errors"
	"net/http"

	"github.com/arenvest/crm/internal/auth"
	"github.com/arenvest/crm/internal/service"
	"github.com/arenvest/crm/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrQuotaExceeded:      http.StatusTooManyRequests,
	service.ErrCollectionRequired: http.StatusBadRequest,
	service.ErrIdentifierRequired: http.StatusBadRequest,

	store.ErrRecordNotFound:    http.StatusNotFound,
	store.ErrWriteTimeout:      http.StatusGatewayTimeout,
	store.ErrPermissionDenied:  http.StatusForbidden,
	store.ErrPartitionNotSaved: http.StatusInternalServerError,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrExecutingQuery:   http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,

	auth.ErrNotSignedIn:  http.StatusUnauthorized,
	auth.ErrAuthRejected: http.StatusUnauthorized,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
