package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/db/models"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/issues"
	"github.com/Harsh-0z/civic-flow-backend/internal/storage"
)

// maxUploadSize bounds the multipart form held in memory per report.
const maxUploadSize = 10 << 20 // 10 MiB

// HandleCreateIssue accepts a multipart issue report with an optional
// image. The reporter is the authenticated principal; the route table
// guarantees one is present by the time this handler runs.
func HandleCreateIssue(svc *issues.Service, uploader storage.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		params := issues.CreateParams{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Latitude:    parseCoordinate(r.FormValue("latitude")),
			Longitude:   parseCoordinate(r.FormValue("longitude")),
		}

		// Validate before the upload so a rejected report never leaves an
		// orphaned file on disk.
		if params.Title == "" || params.Description == "" {
			http.Error(w, "Title and description are required", http.StatusBadRequest)
			return
		}

		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			url, upErr := uploader.Upload(r.Context(), header.Filename, file)
			if upErr != nil {
				log.Printf("image upload failed: %v", upErr)
				http.Error(w, "Image upload failed", http.StatusInternalServerError)
				return
			}
			params.ImageURL = url
		}

		issue, err := svc.Create(r.Context(), principal.Identity, params)
		if err != nil {
			log.Printf("create issue failed: %v", err)
			http.Error(w, "Failed to create issue", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, issue)
	}
}

// HandleListIssues returns every issue, for the map view.
func HandleListIssues(svc *issues.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			log.Printf("list issues failed: %v", err)
			http.Error(w, "Failed to list issues", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// HandleMyIssues returns the caller's own reports.
func HandleMyIssues(svc *issues.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.GetUserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}
		list, err := svc.ListMine(r.Context(), principal.Identity)
		if err != nil {
			log.Printf("list my issues failed: %v", err)
			http.Error(w, "Failed to list issues", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// HandleUpdateIssueStatus moves an issue to a new status. The route table
// restricts this to officials and admins before the handler runs.
func HandleUpdateIssueStatus(svc *issues.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		status, ok := models.ParseIssueStatus(r.URL.Query().Get("status"))
		if !ok {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		issue, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				http.Error(w, "Issue not found", http.StatusNotFound)
				return
			}
			log.Printf("update issue status failed: %v", err)
			http.Error(w, "Failed to update issue", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, issue)
	}
}

// parseCoordinate returns nil for absent or unparseable values; a report
// without a geotag is still valid.
func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
