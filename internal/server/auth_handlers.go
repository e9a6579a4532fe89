package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/iam"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	AdminToken string `json:"adminToken,omitempty"`
}

// RegisterResponse confirms a successful registration. The password hash
// is never part of any response shape.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// HandleRegister creates a new account. Privileged roles are refused with
// 403 unless the request carries the admin signup token.
func HandleRegister(iamService *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Missing email or password", http.StatusBadRequest)
			return
		}

		role := auth.RoleCitizen
		if req.Role != "" {
			parsed, err := auth.ParseRole(req.Role)
			if err != nil {
				http.Error(w, "Invalid role", http.StatusBadRequest)
				return
			}
			role = parsed
		}

		user, err := iamService.Register(r.Context(), iam.RegisterParams{
			Email:      req.Email,
			Password:   req.Password,
			Role:       role,
			Department: req.Department,
			AdminToken: req.AdminToken,
		})
		if err != nil {
			switch {
			case errors.Is(err, iam.ErrDuplicateIdentity):
				http.Error(w, "Email is already taken", http.StatusBadRequest)
			case errors.Is(err, iam.ErrElevationRequired):
				http.Error(w, "Missing or invalid elevation token", http.StatusForbidden)
			default:
				log.Printf("register failed for %s: %v", req.Email, err)
				http.Error(w, "Registration failed", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, RegisterResponse{
			Message: "User registered successfully",
			Email:   user.Email,
			Role:    string(user.Role),
		})
	}
}

// HandleLogin verifies credentials and returns a bearer token. Unknown
// email and wrong password produce byte-identical responses.
func HandleLogin(iamService *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Missing email or password", http.StatusBadRequest)
			return
		}

		token, err := iamService.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, iam.ErrInvalidCredentials) {
				http.Error(w, "Invalid credentials", http.StatusUnauthorized)
				return
			}
			log.Printf("login failed for %s: %v", req.Email, err)
			http.Error(w, "Login failed", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{Token: token})
	}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
