package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/filters"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string                 `json:"error"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// writeError maps err to its status code. Internal causes are logged, never
// sent to the client.
func writeError(logger *zap.Logger, request *restful.Request, response *restful.Response, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal("Internal server error", err)
	}
	if appErr.Kind == apperrors.KindInternal {
		logger.Error("Request failed",
			zap.String("request_id", filters.RequestID(request)),
			zap.String("method", request.Request.Method),
			zap.String("path", request.Request.URL.Path),
			zap.Error(err))
	}
	body := ErrorResponse{Error: appErr.Message, Fields: appErr.Fields}
	_ = response.WriteHeaderAndJson(appErr.Kind.HTTPStatus(), body, restful.MIME_JSON)
}

// ServiceErrorHandler answers routing failures (unknown path, method or
// content type) in the same shape as handler errors.
func ServiceErrorHandler(serviceErr restful.ServiceError, _ *restful.Request, response *restful.Response) {
	for header, values := range serviceErr.Header {
		for _, value := range values {
			response.Header().Add(header, value)
		}
	}
	_ = response.WriteHeaderAndJson(serviceErr.Code, ErrorResponse{Error: http.StatusText(serviceErr.Code)}, restful.MIME_JSON)
}

// RecoverHandler turns a panicking handler into a 500 response.
func RecoverHandler(logger *zap.Logger) restful.RecoverHandleFunction {
	return func(reason any, w http.ResponseWriter) {
		logger.Error("Recovered from panic", zap.String("panic", fmt.Sprint(reason)), zap.Stack("stack"))
		w.Header().Set("Content-Type", restful.MIME_JSON)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
	}
}
