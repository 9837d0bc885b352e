package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/datafilter"
	"github.com/authgate/authgate/internal/repository"
	"github.com/authgate/authgate/internal/services/permcache"
)

// AdminHandlers serves the permission administration surface. Reaching these
// routes at all requires a caller whose permission set grants them; the gate
// enforces that before any handler runs.
type AdminHandlers struct {
	Permissions repository.PermissionRepository
	Guard       *datafilter.PermissionDataFilter
	Cache       *permcache.Cache
}

// HandlePing handles GET /api/ping.
func HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// HandleWhoAmI handles GET /api/whoami: it reports the account the gate
// bound to the request context.
func HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.CallerFromContext(r.Context())
	if !ok {
		// Only reachable on routes the gate skipped.
		writeError(w, http.StatusUnauthorized, "no caller bound")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"account":   account,
		"anonymous": account == auth.AnonymousName,
	})
}

// HandleListPermissions handles GET /admin/permissions.
func (h *AdminHandlers) HandleListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.Permissions.List(r.Context())
	if err != nil {
		log.Printf("list permissions: %v", err)
		writeError(w, http.StatusInternalServerError, "list permissions failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"permissions": permissions})
}

// HandleDisablePermission handles POST /admin/permissions/{id}/disable.
//
// The row must clear both integrity guards before it is touched: it has to
// exist in an active state, and no role binding may still reference it. On
// success the row is soft-disabled and the permission cache refreshed so the
// change is visible to the request path immediately.
func (h *AdminHandlers) HandleDisablePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid permission id")
		return
	}

	filters := []datafilter.Filter{{Field: datafilter.FieldID, Value: id}}

	if err := h.Guard.FilterNoStatusEqualZero(ctx, filters); err != nil {
		h.rejectGuarded(w, id, err)
		return
	}
	if err := h.Guard.FilterStatusEqualZero(ctx, filters); err != nil {
		h.rejectGuarded(w, id, err)
		return
	}

	if err := h.Permissions.Disable(ctx, id); err != nil {
		log.Printf("disable permission %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "disable failed")
		return
	}

	if err := h.Cache.Refresh(ctx); err != nil {
		// The row is disabled; the stale cache heals on the next refresh.
		log.Printf("cache refresh after disabling permission %d: %v", id, err)
	}

	log.Printf("permission %d disabled", id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "disabled"})
}

func (h *AdminHandlers) rejectGuarded(w http.ResponseWriter, id int64, err error) {
	if status, ok := statusForGuardError(err); ok {
		writeError(w, status, err.Error())
		return
	}
	log.Printf("integrity guard for permission %d: %v", id, err)
	writeError(w, http.StatusInternalServerError, "integrity check failed")
}

// HandleCacheRefresh handles POST /admin/cache/refresh: it rebuilds the
// public permission snapshot on demand, for operators who just changed
// permission data out of band.
func (h *AdminHandlers) HandleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Cache.Refresh(r.Context()); err != nil {
		log.Printf("manual cache refresh failed: %v", err)
		writeError(w, http.StatusInternalServerError, "cache refresh failed")
		return
	}

	snapshot := h.Cache.Get()
	log.Printf("manual cache refresh (version=%d, public=%d)", snapshot.Version, len(snapshot.Public))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"version":   snapshot.Version,
		"public":    len(snapshot.Public),
		"timestamp": snapshot.CreatedAt.Unix(),
	})
}
