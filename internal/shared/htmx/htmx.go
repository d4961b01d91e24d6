// Package htmx reads and writes the HTMX request and response headers.
package htmx

import "net/http"

const (
	HeaderRequest  = "HX-Request"
	HeaderRedirect = "HX-Redirect"
	HeaderReswap   = "HX-Reswap"
	HeaderRetarget = "HX-Retarget"
	HeaderTrigger  = "HX-Trigger"
)

// IsRequest reports whether r was issued by HTMX rather than a full navigation.
func IsRequest(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// Redirect sends the browser to url: HX-Redirect for HTMX requests, 303 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsRequest(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Retarget swaps the response into selector instead of the element that issued the request.
func Retarget(w http.ResponseWriter, selector, swap string) {
	w.Header().Set(HeaderRetarget, selector)
	w.Header().Set(HeaderReswap, swap)
}
