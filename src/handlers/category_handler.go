package handlers

import (
	"encoding/json"
	"net/http"

	"ledger-server/src/ledger"
	"ledger-server/src/models"
)

func CreateCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode create category request")
			return
		}
		cat, err := svc.CreateCategory(r.Context(), req.Name, models.TransactionKind(req.Kind))
		if err != nil {
			writeError(w, r, err, "failed to create category")
			return
		}
		writeJSON(w, http.StatusCreated, cat)
	}
}

func ListCategories(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := svc.ListCategories(r.Context())
		if err != nil {
			writeError(w, r, err, "failed to list categories")
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func RenameCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "category_id")
		if err != nil {
			writeError(w, r, err, "invalid category id")
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, &ledger.ValidationError{Reason: "invalid request body"}, "failed to decode rename category request")
			return
		}
		cat, err := svc.RenameCategory(r.Context(), id, req.Name)
		if err != nil {
			writeError(w, r, err, "failed to rename category")
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

func DeleteCategory(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "category_id")
		if err != nil {
			writeError(w, r, err, "invalid category id")
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			writeError(w, r, err, "failed to delete category")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
