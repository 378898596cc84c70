// Package middleware holds the echo middleware stack and the global
// error handler.
//
// Global middleware handles request ids, New Relic transactions,
// request-scoped loggers, request logging, CORS, security headers and
// panic recovery. The database middleware scopes one pooled connection
// to each request that touches storage.
package middleware
