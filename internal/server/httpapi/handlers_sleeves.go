package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/server/models"
	"github.com/skvault/sleevekeeper/internal/server/repositories/sleeves"
	"github.com/skvault/sleevekeeper/internal/server/services"
)

const maxUploadBytes = 8 << 20

type sleeveResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Manufacturer   string `json:"manufacturer,omitempty"`
	PackSize       int    `json:"pack_size"`
	RemainingCount int    `json:"remaining_count"`
	ImageURL       string `json:"image_url,omitempty"`
}

func (s *Server) sleeveToResponse(r *http.Request, sleeve *models.Sleeve) sleeveResponse {
	resp := sleeveResponse{
		ID:             sleeve.ID,
		Name:           sleeve.Name,
		Type:           sleeve.Type,
		Manufacturer:   sleeve.Manufacturer,
		PackSize:       sleeve.PackSize,
		RemainingCount: sleeve.RemainingCount,
	}
	if sleeve.ImageName != "" {
		url, err := s.imageStore.URL(r.Context(), sleeve.ImageName)
		if err != nil {
			s.logger.Warn(r.Context(), "failed to resolve image url",
				"image", sleeve.ImageName, "error", err)
		} else {
			resp.ImageURL = url
		}
	}
	return resp
}

// sleeveParamsFromForm decodes the multipart sleeve form shared by create
// and edit. The optional image file is stored best effort: an upload problem
// is logged and the sleeve proceeds without a (new) image, never blocking
// the inventory write.
func (s *Server) sleeveParamsFromForm(w http.ResponseWriter, r *http.Request) (services.SleeveParams, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return services.SleeveParams{}, false
	}

	params := services.SleeveParams{
		Name:         r.FormValue("name"),
		Type:         r.FormValue("type"),
		Manufacturer: r.FormValue("manufacturer"),
	}

	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"pack_size", &params.PackSize},
		{"remaining_count", &params.RemainingCount},
	} {
		raw := r.FormValue(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, common.NewValidationError(f.name, "must be an integer"))
			return services.SleeveParams{}, false
		}
		*f.dst = v
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			s.logger.Warn(r.Context(), "failed to read image upload", "error", readErr)
			return params, true
		}
		name, saveErr := s.imageStore.Save(r.Context(), header.Filename, data)
		if saveErr != nil {
			s.logger.Warn(r.Context(), "failed to store image",
				"filename", header.Filename, "error", saveErr)
			return params, true
		}
		params.ImageName = name
	}

	return params, true
}

func (s *Server) handleCreateSleeve(w http.ResponseWriter, r *http.Request) {
	params, ok := s.sleeveParamsFromForm(w, r)
	if !ok {
		return
	}

	sleeve, err := s.stockService.CreateSleeve(r.Context(), callerID(r), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.sleeveToResponse(r, sleeve))
}

func (s *Server) handleGetSleeve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sleeve, err := s.stockService.GetSleeve(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sleeveToResponse(r, sleeve))
}

func (s *Server) handleEditSleeve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	params, ok := s.sleeveParamsFromForm(w, r)
	if !ok {
		return
	}

	prevImage, err := s.stockService.EditSleeve(r.Context(), callerID(r), id, params)
	if err != nil {
		writeError(w, err)
		return
	}
	if prevImage != "" {
		if err := s.imageStore.Remove(r.Context(), prevImage); err != nil {
			s.logger.Warn(r.Context(), "failed to remove replaced image",
				"image", prevImage, "error", err)
		}
	}

	sleeve, err := s.stockService.GetSleeve(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sleeveToResponse(r, sleeve))
}

func (s *Server) handleDeleteSleeve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := s.stockService.DeleteSleeve(r.Context(), callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if deleted.ImageName != "" {
		if err := s.imageStore.Remove(r.Context(), deleted.ImageName); err != nil {
			s.logger.Warn(r.Context(), "failed to remove image of deleted sleeve",
				"image", deleted.ImageName, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddPack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	packs := 1
	if r.Body != nil {
		var req struct {
			Packs *int `json:"packs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Packs != nil {
			packs = *req.Packs
		}
	}

	if err := s.stockService.AddPack(r.Context(), callerID(r), id, packs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSleeves(w http.ResponseWriter, r *http.Request) {
	opts := sleeves.ListOptions{}
	switch r.URL.Query().Get("sort") {
	case "remaining_asc":
		opts.Sort = sleeves.SortRemainingAsc
	case "remaining_desc":
		opts.Sort = sleeves.SortRemainingDesc
	}
	switch r.URL.Query().Get("kind") {
	case "inner":
		opts.Kind = sleeves.KindInner
	case "outer":
		opts.Kind = sleeves.KindOuter
	}

	list, err := s.stockService.ListSleeves(r.Context(), callerID(r), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]sleeveResponse, 0, len(list))
	for _, sleeve := range list {
		resp = append(resp, s.sleeveToResponse(r, sleeve))
	}
	writeJSON(w, http.StatusOK, resp)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, common.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
