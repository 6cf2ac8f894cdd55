package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux returns an http.ServeMux serving the runtime profiling endpoints
// under /debug/pprof/. Patterns carry the full path, so the mux must be
// mounted at that prefix without stripping it; the index page's relative
// links then resolve against the same prefix.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}
