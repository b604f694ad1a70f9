package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/okian/fplsquad/internal/adapters/repository"
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/transfer"
	"github.com/okian/fplsquad/internal/domain/types"
)

const maxRosterBytes = 1 << 20

// transfersRequest is the JSON form of POST /transfers. Omitting ids
// compares against the last saved roster.
type transfersRequest struct {
	IDs []int `json:"ids"`
}

type transfersResponse struct {
	RunID string              `json:"run_id"`
	In    []types.TransferRow `json:"in"`
	Out   []types.TransferRow `json:"out"`
}

type historyResponse struct {
	Status string `json:"status"`
	RunID  string `json:"run_id"`
}

// TransfersHandler compares rosters and records history.
type TransfersHandler struct {
	deps Dependencies
}

// NewTransfersHandler creates a new transfers handler.
func NewTransfersHandler(deps Dependencies) *TransfersHandler {
	return &TransfersHandler{deps: deps}
}

// HandleTransfers handles POST /transfers. The body is either a CSV roster
// (Content-Type text/csv) or JSON {"ids": [...]}.
func (h *TransfersHandler) HandleTransfers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	prior, err := readPrior(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	recs, err := h.deps.Transfers(r.Context(), prior)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	in, out := transfer.Split(recs)
	resp := transfersResponse{
		In:  types.Transfers(in),
		Out: types.Transfers(out),
	}
	if p, err := h.deps.Latest(); err == nil {
		resp.RunID = p.RunID
	}
	writeJSON(w, http.StatusOK, resp)
}

func readPrior(r *http.Request) ([]model.RosterEntry, error) {
	body := io.LimitReader(r.Body, maxRosterBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		return repository.ReadRoster(body)
	}

	var req transfersRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.IDs == nil {
		return nil, nil
	}
	prior := make([]model.RosterEntry, 0, len(req.IDs))
	for _, id := range req.IDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid id %d", ErrBadRequest, id)
		}
		prior = append(prior, model.RosterEntry{ID: id})
	}
	return prior, nil
}

// HandleSaveHistory handles POST /history, appending the latest plan to the
// ledger.
func (h *TransfersHandler) HandleSaveHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	runID, err := h.deps.SaveHistory(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, historyResponse{Status: "saved", RunID: runID})
}
