package handler

import (
	"log/slog"
	"net/http"

	"github.com/J-tt/ytsm/internal/domain/services"
	"github.com/J-tt/ytsm/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	treeService services.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{treeService: treeService, logger: logger}
}

// GetTree returns the nested folder/subscription tree for the user
// GET /api/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.BuildTree(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}
