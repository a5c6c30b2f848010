// Package filters holds the go-restful container filters every request
// passes through, in the order Chain returns them.
package filters

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tierlist-restful/apperrors"
)

const (
	RequestIDHeader    = "X-Request-ID"
	requestIDAttribute = "request_id"
	maxRequestIDLen    = 128
)

// ErrorWriter answers a request that a filter refuses.
type ErrorWriter func(request *restful.Request, response *restful.Response, err error)

// Chain returns request id, logging, metrics and body limit filters.
// Refusals are written through onError.
func Chain(logger *zap.Logger, maxBodyBytes int64, onError ErrorWriter) []restful.FilterFunction {
	return []restful.FilterFunction{
		RequestIDFilter,
		LoggingFilter(logger),
		MetricsFilter,
		BodyLimitFilter(maxBodyBytes, onError),
	}
}

// RequestIDFilter propagates the client's X-Request-ID or assigns a new one.
func RequestIDFilter(request *restful.Request, response *restful.Response, chain *restful.FilterChain) {
	id := request.HeaderParameter(RequestIDHeader)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	request.SetAttribute(requestIDAttribute, id)
	response.Header().Set(RequestIDHeader, id)
	chain.ProcessFilter(request, response)
}

// RequestID returns the id assigned by RequestIDFilter.
func RequestID(request *restful.Request) string {
	id, _ := request.Attribute(requestIDAttribute).(string)
	return id
}

func LoggingFilter(logger *zap.Logger) restful.FilterFunction {
	logger = logger.Named("http")
	return func(request *restful.Request, response *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(request, response)

		logger.Info("Request",
			zap.String("request_id", RequestID(request)),
			zap.String("client_ip", clientIP(request.Request)),
			zap.String("method", request.Request.Method),
			zap.String("path", request.Request.URL.Path),
			zap.String("route", request.SelectedRoutePath()),
			zap.Int("status_code", response.StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", request.Request.UserAgent()),
		)
	}
}

func MetricsFilter(request *restful.Request, response *restful.Response, chain *restful.FilterChain) {
	start := time.Now()
	chain.ProcessFilter(request, response)

	route := request.SelectedRoutePath()
	if route == "" {
		route = "unmatched"
	}
	method := request.Request.Method
	requestsTotal.WithLabelValues(method, route, strconv.Itoa(response.StatusCode())).Inc()
	requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// BodyLimitFilter caps every request body at limit bytes. Bodies declaring a
// larger Content-Length are refused up front; others fail with
// *http.MaxBytesError once the handler reads past the limit.
func BodyLimitFilter(limit int64, onError ErrorWriter) restful.FilterFunction {
	return func(request *restful.Request, response *restful.Response, chain *restful.FilterChain) {
		if request.Request.ContentLength > limit {
			onError(request, response, apperrors.TooLarge("Request body exceeds %d bytes", limit))
			return
		}
		if request.Request.Body != nil {
			request.Request.Body = http.MaxBytesReader(response.ResponseWriter, request.Request.Body, limit)
		}
		chain.ProcessFilter(request, response)
	}
}

// CORS builds the cross-origin filter for origins; "*" allows any origin.
func CORS(container *restful.Container, origins []string) restful.CrossOriginResourceSharing {
	domains := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			origin = ".*"
		}
		domains = append(domains, origin)
	}
	return restful.CrossOriginResourceSharing{
		AllowedDomains: domains,
		AllowedHeaders: []string{"Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:  []string{RequestIDHeader},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		MaxAge:         3600,
		Container:      container,
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
