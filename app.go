// Cycling App - Social fitness tracking backend for cyclists.
// Copyright (C) 2026  Habeeb Amz
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
	"github.com/habeebamz/cycling-app-sub000/internal/service/challenge"
	"github.com/habeebamz/cycling-app-sub000/internal/service/export"
	"github.com/habeebamz/cycling-app-sub000/internal/service/ingest"
	"github.com/habeebamz/cycling-app-sub000/internal/service/notify"
	"github.com/habeebamz/cycling-app-sub000/internal/service/records"
	"github.com/habeebamz/cycling-app-sub000/internal/service/storage"
)

// App wires the services together and exposes the thin HTTP surface.
// All activity semantics live in internal/service; handlers only
// translate requests and map errors to status codes.
type App struct {
	storage *storage.Service
	ingest  *ingest.Service
	export  *export.Service
}

// NewApp initializes all core services on top of the shared storage.
func NewApp(store *storage.Service) *App {
	sink := notify.NewService()
	recordsService := records.NewService(store, sink)
	progressEngine := challenge.NewEngine(store, sink)

	return &App{
		storage: store,
		ingest:  ingest.NewService(store, recordsService, progressEngine),
		export:  export.NewService(),
	}
}

func (a *App) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", withLogging(a.handleHealth))
	mux.HandleFunc("/api/upload", withLogging(a.handleUpload))
	mux.HandleFunc("/api/activities", withLogging(a.handleActivities))
	mux.HandleFunc("/api/activities/", withLogging(a.handleActivity))
	mux.HandleFunc("/api/profile", withLogging(a.handleProfile))
	mux.HandleFunc("/api/stats", withLogging(a.handleStats))
	mux.HandleFunc("/api/challenges", withLogging(a.handleChallenges))
	mux.HandleFunc("/api/challenges/", withLogging(a.handleChallengeJoin))
	return mux
}

// withLogging wraps a handler with request logging and panic recovery.
func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Received request: %s %s", r.Method, r.URL.Path)
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status": "ok"}`)
}

// handleUpload ingests one uploaded track file (multipart form field
// "file") with optional title/description/calories annotations.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	athleteID, err := a.resolveAthlete(r.FormValue("athlete_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	calories, _ := strconv.Atoi(r.FormValue("calories"))

	activity, err := a.ingest.IngestFile(ingest.FileUpload{
		Filename:     header.Filename,
		Data:         data,
		AthleteID:    athleteID,
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		CaloriesKcal: calories,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

// handleActivities lists activities (GET) or ingests a manual entry
// (POST).
func (a *App) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		athleteID, err := a.resolveAthlete(r.URL.Query().Get("athlete_id"))
		if err != nil {
			a.writeError(w, err)
			return
		}

		var activities []domain.Activity
		if month := r.URL.Query().Get("month"); month != "" {
			activities, err = a.storage.ListActivitiesByMonth(athleteID, month)
		} else {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			activities, err = a.storage.ListRecentActivities(athleteID, limit)
		}
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, activities)

	case http.MethodPost:
		var entry struct {
			AthleteID           uint      `json:"athlete_id"`
			Title               string    `json:"title"`
			Description         string    `json:"description"`
			DistanceKm          float64   `json:"distance_km"`
			DurationSeconds     int       `json:"duration_seconds"`
			ElevationGainMeters float64   `json:"elevation_gain_meters"`
			CaloriesKcal        int       `json:"calories_kcal"`
			StartTime           time.Time `json:"start_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		athleteID := entry.AthleteID
		if athleteID == 0 {
			athlete, err := a.storage.DefaultAthlete()
			if err != nil {
				a.writeError(w, err)
				return
			}
			athleteID = athlete.ID
		}

		activity, err := a.ingest.IngestManual(ingest.ManualEntry{
			AthleteID:           athleteID,
			Title:               entry.Title,
			Description:         entry.Description,
			DistanceKm:          entry.DistanceKm,
			DurationSeconds:     entry.DurationSeconds,
			ElevationGainMeters: entry.ElevationGainMeters,
			CaloriesKcal:        entry.CaloriesKcal,
			StartTime:           entry.StartTime,
		})
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, activity)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleActivity serves /api/activities/{id} and
// /api/activities/{id}/export.
func (a *App) handleActivity(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/activities/")
	id, tail, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if tail == "export" {
		a.handleExport(w, r, id)
		return
	}
	if tail != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		activity, err := a.storage.GetActivity(id)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, activity)

	case http.MethodPatch:
		var body struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := a.ingest.UpdateDetails(id, body.Title, body.Description); err != nil {
			a.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := a.ingest.DeleteActivity(id); err != nil {
			a.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	activity, err := a.storage.GetActivity(id)
	if err != nil {
		a.writeError(w, err)
		return
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("activity-%s.fit", activity.ID))
	if err := a.export.WriteFIT(activity, path); err != nil {
		a.writeError(w, err)
		return
	}
	defer os.Remove(path)

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// handleProfile reads or edits the athlete profile. The aggregate
// fields are read-only here; only the records service mutates them.
func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		athleteID, err := a.resolveAthlete(r.URL.Query().Get("athlete_id"))
		if err != nil {
			a.writeError(w, err)
			return
		}
		athlete, err := a.storage.GetAthlete(athleteID)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, athlete)

	case http.MethodPatch:
		var body struct {
			AthleteID uint    `json:"athlete_id"`
			Name      string  `json:"name"`
			WeightKg  float64 `json:"weight_kg"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		athleteID := body.AthleteID
		if athleteID == 0 {
			athlete, err := a.storage.DefaultAthlete()
			if err != nil {
				a.writeError(w, err)
				return
			}
			athleteID = athlete.ID
		}
		athlete, err := a.storage.GetAthlete(athleteID)
		if err != nil {
			a.writeError(w, err)
			return
		}
		if body.Name != "" {
			athlete.Name = body.Name
		}
		if body.WeightKg > 0 {
			athlete.WeightKg = body.WeightKg
		}
		if err := a.storage.UpdateAthlete(athlete); err != nil {
			a.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleStats reports the athlete's lifetime aggregates alongside sums
// recomputed from the stored activities.
func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	athleteID, err := a.resolveAthlete(r.URL.Query().Get("athlete_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	athlete, err := a.storage.GetAthlete(athleteID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"longest_ride_km":        athlete.LongestRideKm,
		"total_distance_km":      athlete.TotalDistanceKm,
		"stored_distance_km":     a.storage.TotalDistanceKm(athleteID),
		"total_duration_seconds": a.storage.TotalDurationSeconds(athleteID),
	})
}

// handleChallenges lists challenges (GET) or creates one (POST).
func (a *App) handleChallenges(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		challenges, err := a.storage.ListChallenges()
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, challenges)

	case http.MethodPost:
		var c domain.Challenge
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := a.storage.CreateChallenge(&c); err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleChallengeJoin serves POST /api/challenges/{id}/join.
func (a *App) handleChallengeJoin(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/challenges/")
	idStr, tail, _ := strings.Cut(rest, "/")
	if tail != "join" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	challengeID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		http.Error(w, "invalid challenge id", http.StatusBadRequest)
		return
	}

	athleteID, err := a.resolveAthlete(r.URL.Query().Get("athlete_id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	enrollment, err := a.storage.JoinChallenge(uint(challengeID), athleteID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

// resolveAthlete parses an athlete id, falling back to the seeded
// default profile when none is given.
func (a *App) resolveAthlete(raw string) (uint, error) {
	if raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return 0, domain.ErrAthleteNotFound
		}
		return uint(id), nil
	}
	athlete, err := a.storage.DefaultAthlete()
	if err != nil {
		return 0, err
	}
	return athlete.ID, nil
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrNoTrackData),
		errors.Is(err, domain.ErrInsufficientTrackData),
		errors.Is(err, domain.ErrDecodeFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAthleteNotFound),
		errors.Is(err, domain.ErrActivityNotFound):
		status = http.StatusNotFound
	}

	log.Printf("Request failed: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
