package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
)

// AdminUserResponse is the admin-panel view of a user. No password hash.
type AdminUserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// HandleListUsers returns all users for the admin panel.
func HandleListUsers(users repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.List(r.Context())
		if err != nil {
			log.Printf("list users failed: %v", err)
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		resp := make([]AdminUserResponse, 0, len(list))
		for _, u := range list {
			resp = append(resp, AdminUserResponse{
				ID:         u.ID,
				Email:      u.Email,
				Role:       string(u.Role),
				Department: u.Department,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleDeleteUser removes a non-admin account and every issue it
// reported. Admin accounts cannot be deleted through the API.
func HandleDeleteUser(users repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		user, err := users.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			log.Printf("get user failed: %v", err)
			http.Error(w, "Failed to load user", http.StatusInternalServerError)
			return
		}

		if user.Role == auth.RoleAdmin {
			http.Error(w, "Cannot delete admin users", http.StatusBadRequest)
			return
		}

		// The account and its issues go together or not at all.
		if err := users.DeleteWithIssues(r.Context(), user.ID); err != nil {
			log.Printf("delete user failed: %v", err)
			http.Error(w, "Failed to delete user", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
	}
}
