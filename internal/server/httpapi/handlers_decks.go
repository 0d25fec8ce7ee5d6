package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/skvault/sleevekeeper/internal/common"
	"github.com/skvault/sleevekeeper/internal/server/models"
	"github.com/skvault/sleevekeeper/internal/server/repositories/decks"
	"github.com/skvault/sleevekeeper/internal/server/services"
)

type composeDeckRequest struct {
	Name          string `json:"name"`
	InnerSleeveID *int64 `json:"inner_sleeve_id"`
	InnerCount    int    `json:"inner_count"`
	OuterSleeveID *int64 `json:"outer_sleeve_id"`
	OuterCount    int    `json:"outer_count"`
}

type deckResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	InnerSleeveID *int64 `json:"inner_sleeve_id"`
	InnerCount    int    `json:"inner_count"`

	OuterSleeveID *int64 `json:"outer_sleeve_id"`
	OuterCount    int    `json:"outer_count"`
}

type deckViewResponse struct {
	deckResponse

	InnerSleeveName  string `json:"inner_sleeve_name,omitempty"`
	InnerSleeveImage string `json:"inner_sleeve_image,omitempty"`

	OuterSleeveName  string `json:"outer_sleeve_name,omitempty"`
	OuterSleeveImage string `json:"outer_sleeve_image,omitempty"`
}

func deckToResponse(d *models.Deck) deckResponse {
	return deckResponse{
		ID:            d.ID,
		Name:          d.Name,
		InnerSleeveID: d.InnerSleeveID,
		InnerCount:    d.InnerCount,
		OuterSleeveID: d.OuterSleeveID,
		OuterCount:    d.OuterCount,
	}
}

func (s *Server) handleComposeDeck(w http.ResponseWriter, r *http.Request) {
	var req composeDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	deck, err := s.deckService.ComposeDeck(r.Context(), callerID(r), services.ComposeDeckParams{
		Name:          req.Name,
		InnerSleeveID: req.InnerSleeveID,
		InnerCount:    req.InnerCount,
		OuterSleeveID: req.OuterSleeveID,
		OuterCount:    req.OuterCount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, deckToResponse(deck))
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.deckService.DeleteDeck(r.Context(), callerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	filter := decks.Filter{}
	for _, q := range []struct {
		name string
		dst  **int64
	}{
		{"inner_sleeve_id", &filter.InnerSleeveID},
		{"outer_sleeve_id", &filter.OuterSleeveID},
	} {
		raw := r.URL.Query().Get(q.name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, common.NewValidationError(q.name, "must be an integer"))
			return
		}
		*q.dst = &id
	}

	views, err := s.deckService.ListDecks(r.Context(), callerID(r), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]deckViewResponse, 0, len(views))
	for _, v := range views {
		item := deckViewResponse{
			deckResponse:    deckToResponse(&v.Deck),
			InnerSleeveName: v.InnerSleeveName,
			OuterSleeveName: v.OuterSleeveName,
		}
		if v.InnerSleeveImage != "" {
			if url, err := s.imageStore.URL(r.Context(), v.InnerSleeveImage); err == nil {
				item.InnerSleeveImage = url
			}
		}
		if v.OuterSleeveImage != "" {
			if url, err := s.imageStore.URL(r.Context(), v.OuterSleeveImage); err == nil {
				item.OuterSleeveImage = url
			}
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}
