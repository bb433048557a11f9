package http

import (
	"net/http"
)

type versionResponse struct {
	BuildVersion string `json:"buildVersion"`
	BuildDate    string `json:"buildDate"`
	BuildCommit  string `json:"buildCommit"`
}

func (h *Handler) getServerVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, versionResponse{
		BuildVersion: h.buildInfo.BuildVersion(),
		BuildDate:    h.buildInfo.BuildDate(),
		BuildCommit:  h.buildInfo.BuildCommit(),
	})
}
