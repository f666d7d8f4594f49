package handler

import (
	"errors"
	"net/http"

	"github.com/LENAX/step-scheduler/pkg/core/engine"
	"github.com/LENAX/step-scheduler/pkg/core/graph"
	"github.com/LENAX/step-scheduler/pkg/storage"
)

// statusFor 将领域错误映射为HTTP状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrMalformedConstraint):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrCycleDetected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
