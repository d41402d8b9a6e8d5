package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sco1/zwom/internal/ingest/zwom"
	"github.com/sco1/zwom/internal/interp"
	"github.com/sco1/zwom/internal/models"
	"github.com/sco1/zwom/internal/storage"
	"github.com/sco1/zwom/internal/zwo"
)

// workoutMeta is the JSON shape of a library entry's metadata.
type workoutMeta struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	FTP         *int      `json:"ftp,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMeta(w storage.Workout) workoutMeta {
	return workoutMeta{
		ID:          w.ID,
		Name:        w.Name,
		Author:      w.Author,
		Description: w.Description,
		FTP:         w.FTP,
		CreatedAt:   w.CreatedAt,
	}
}

// handleConvert converts a ZWOM body to ZWO. Language violations come back
// as 422 with the parser or validator message; ?store=1 also persists the
// pair to the library and returns the new id instead of the document.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	src, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}

	blocks, ftp, err := parseAndValidate(string(src))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	doc, err := zwo.Render(blocks, ftp)
	if err != nil {
		s.log.Error("render error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if r.URL.Query().Get("store") == "1" {
		row := storage.Workout{ZWOM: string(src), ZWO: doc.String()}
		if len(blocks) > 0 {
			meta := blocks[0].Params
			row.Name = paramText(meta, models.TagName)
			row.Author = paramText(meta, models.TagAuthor)
			row.Description = paramText(meta, models.TagDescription)
		}
		if ftp != 0 {
			row.FTP = &ftp
		}

		id, err := s.store.InsertWorkout(r.Context(), row)
		if err != nil {
			s.log.Error("store error", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Bytes()) //nolint:errcheck
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.store.ListWorkouts(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]workoutMeta, 0, len(workouts))
	for _, workout := range workouts {
		out = append(out, toMeta(workout))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, ok := s.lookupWorkout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMeta(*workout))
}

func (s *Server) handleGetWorkoutZWO(w http.ResponseWriter, r *http.Request) {
	workout, ok := s.lookupWorkout(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+workout.Name+`.zwo"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, workout.ZWO) //nolint:errcheck
}

func (s *Server) handleGetWorkoutZWOM(w http.ResponseWriter, r *http.Request) {
	workout, ok := s.lookupWorkout(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+workout.Name+`.zwom"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, workout.ZWOM) //nolint:errcheck
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	switch err := s.store.DeleteWorkout(r.Context(), id); {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// lookupWorkout resolves the {id} route parameter to a stored workout,
// writing the error response itself on failure.
func (s *Server) lookupWorkout(w http.ResponseWriter, r *http.Request) (*storage.Workout, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return nil, false
	}

	workout, err := s.store.GetWorkout(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return nil, false
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	return workout, true
}

// parseAndValidate runs the front half of the pipeline, keeping the
// validated blocks so the handler can lift library metadata out of META.
func parseAndValidate(src string) (models.Workout, int, error) {
	raw, err := zwom.Parse(src)
	if err != nil {
		return nil, 0, err
	}
	return interp.Validate(raw)
}

func paramText(params map[models.Tag]models.Value, key models.Tag) string {
	if v, ok := params[key]; ok {
		return v.String()
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
