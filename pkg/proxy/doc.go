// Package proxy holds the request decoding, response writing and error
// mapping shared by the HTTP handlers and middleware.
//
// # Request decoding
//
// ParseMessageRequest reads at most a configured number of bytes from the
// request body. An empty body decodes as {}. Invalid JSON and oversized
// bodies return a *RequestError, which maps to 400 Bad Request.
//
// # Error mapping
//
// HandleError turns any error into a types.ErrorResponse. Only request
// errors reach the client as 400. Everything else, including upstream
// status errors and timeouts, is an opaque 500:
//
//	if err != nil {
//	    errResp := proxy.HandleError(err)
//	    proxy.WriteErrorResponse(w, errResp)
//	    return
//	}
//
// The underlying error is logged by the caller with the request ID and never
// written to the response.
package proxy
