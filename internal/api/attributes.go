package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/trgovina/internal/attributes"
	"github.com/erazemk/trgovina/internal/model"
)

// AttributesHandler renders attribute payloads.
type AttributesHandler struct {
	DB                *sql.DB
	Text              attributes.TextFormatter
	DefaultLanguageID int64
}

type formatAttributesRequest struct {
	Payload    string  `json:"payload"`
	Separator  *string `json:"separator"`
	HTMLEncode *bool   `json:"html_encode"`
}

type formatAttributesResponse struct {
	Text string `json:"text"`
}

// Format handles POST /api/attributes/{kind}/format. The display language
// comes from the lang query parameter.
func (h *AttributesHandler) Format(w http.ResponseWriter, r *http.Request) {
	kind := model.AttributeKind(r.PathValue("kind"))
	if !kind.Valid() {
		jsonError(w, http.StatusNotFound, "unknown attribute kind")
		return
	}

	ctx := r.Context()
	if lang := r.URL.Query().Get("lang"); lang != "" {
		id, err := strconv.ParseInt(lang, 10, 64)
		if err != nil || id < 0 {
			jsonError(w, http.StatusBadRequest, "invalid lang")
			return
		}
		ctx = attributes.WithLanguage(ctx, id)
	}

	var req formatAttributesRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := attributes.DefaultOptions()
	if req.Separator != nil {
		opts.Separator = *req.Separator
	}
	if req.HTMLEncode != nil {
		opts.HTMLEncode = *req.HTMLEncode
	}

	f := attributes.NewStoreFormatter(h.DB, kind, h.Text, attributes.ContextLanguage(h.DefaultLanguageID))
	text, err := f.Format(ctx, req.Payload, opts)
	if err != nil {
		storeError(w, err, "failed to format attributes")
		return
	}
	jsonResponse(w, http.StatusOK, formatAttributesResponse{Text: text})
}
