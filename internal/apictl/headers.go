package apictl

import "net/http"

// HeaderOperator reads and writes the primitive string headers the protocol
// is built on. GetHeader returns "" for an absent key; SetHeader is
// idempotent per key, last write wins.
type HeaderOperator interface {
	GetHeader(key string) string
	SetHeader(key, value string)
}

// HTTPHeaderOperator adapts an HTTP request/response pair to the
// HeaderOperator contract: reads come from the request headers, writes go to
// the response headers. It touches nothing but headers.
type HTTPHeaderOperator struct {
	req *http.Request
	w   http.ResponseWriter
}

// NewHTTPHeaderOperator wraps a request/response pair.
func NewHTTPHeaderOperator(w http.ResponseWriter, req *http.Request) *HTTPHeaderOperator {
	return &HTTPHeaderOperator{req: req, w: w}
}

func (o *HTTPHeaderOperator) GetHeader(key string) string {
	return o.req.Header.Get(key)
}

func (o *HTTPHeaderOperator) SetHeader(key, value string) {
	o.w.Header().Set(key, value)
}
