package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"studyload/apperrors"
	"studyload/models"
	"studyload/workload"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps err onto a status and a message safe to show. Errors
// outside the domain taxonomy are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown || code == apperrors.CodeStoreUnavailable {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, apperrors.HTTPStatus(err), errorBody{Error: apperrors.Message(err), Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeValidationFailure, "invalid request body", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

func taskRef(r *http.Request) (models.TaskRef, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return models.TaskRef{}, err
	}
	kind := models.TaskKind(r.PathValue("kind"))
	switch kind {
	case models.KindIndividual, models.KindGroup:
	default:
		return models.TaskRef{}, apperrors.Validation(fmt.Sprintf("unknown task kind %q", kind))
	}
	return models.TaskRef{Kind: kind, ID: id}, nil
}

func parseDeadline(s string) (time.Time, error) {
	d, err := workload.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.Validation("deadline must be a date formatted YYYY-MM-DD")
	}
	return d, nil
}
