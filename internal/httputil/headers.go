package httputil

import "net/http"

const UserAgent = "autolot/1.0 (+https://github.com/lukman83/autolot)"

// JSONHeaders returns the headers sent on every JSON API call.
func JSONHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Accept-Encoding", "gzip, br")
	h.Set("User-Agent", UserAgent)
	return h
}

// ApplyHeaders copies h onto req without clobbering headers already set.
func ApplyHeaders(req *http.Request, h http.Header) {
	for k, v := range h {
		if req.Header.Get(k) == "" {
			req.Header[k] = v
		}
	}
}
