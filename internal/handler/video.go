package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/J-tt/ytsm/internal/domain/models"
	"github.com/J-tt/ytsm/internal/domain/services"
	"github.com/J-tt/ytsm/internal/httputil"
)

// VideoHandler handles video listing requests
type VideoHandler struct {
	videoService services.VideoService
	logger       *slog.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videoService services.VideoService, logger *slog.Logger) *VideoHandler {
	return &VideoHandler{videoService: videoService, logger: logger}
}

// ListVideos lists videos scoped by subscription, folder subtree, or all
// GET /api/videos?subscription_id=&folder_id=&query=&watched=&downloaded=&sort=
func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.VideoFilter{
		Query: q.Get("query"),
		Sort:  models.VideoSort(q.Get("sort")),
	}
	if filter.Sort == "" {
		filter.Sort = models.SortNewest
	}
	if v := q.Get("subscription_id"); v != "" {
		filter.SubscriptionID = &v
	}
	if v := q.Get("folder_id"); v != "" {
		filter.FolderID = &v
	}

	var err error
	if filter.Watched, err = parseTriState(q.Get("watched")); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Downloaded, err = parseTriState(q.Get("downloaded")); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	videos, err := h.videoService.ListVideos(r.Context(), httputil.GetUserID(r), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, videos)
}

// parseTriState maps y/n/all (or empty) onto the tri-state filter values
func parseTriState(value string) (*bool, error) {
	switch value {
	case "", "all":
		return nil, nil
	case "y":
		yes := true
		return &yes, nil
	case "n":
		no := false
		return &no, nil
	default:
		return nil, fmt.Errorf("invalid filter value %q (want y, n, or all)", value)
	}
}
