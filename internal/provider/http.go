package provider

import (
	"encoding/json"
	"net/http"
)

// CallerHeader names the calling application.
const CallerHeader = "X-Caller-Package"

type callRequest struct {
	Authority string            `json:"authority"`
	Method    string            `json:"method"`
	Extras    map[string]string `json:"extras"`
}

// Handler serves POST /provider/call. Every decoded call is answered with 200 and its bundle.
func (p *Provider) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var call callRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<20)).Decode(&call); err != nil {
			http.Error(w, "invalid call body", http.StatusBadRequest)
			return
		}

		var reply Bundle
		if call.Authority != "" && call.Authority != Authority {
			reply = errorBundle("Unknown authority: " + call.Authority)
		} else {
			reply = p.Call(req.Context(), req.Header.Get(CallerHeader), call.Method, call.Extras)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reply); err != nil {
			p.logger.Error().Err(err).Msg("encode provider reply")
		}
	}
}
