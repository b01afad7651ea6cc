package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/product-studio/internal/history"
	"github.com/fpang/product-studio/internal/jobs"
	"github.com/fpang/product-studio/internal/studio"
)

// videoJobTimeout bounds a single Veo generation end to end.
const videoJobTimeout = 15 * time.Minute

// videoJob tracks one asynchronous video generation. Veo runs for
// minutes, too long to hold an HTTP request open; the client polls
// status instead.
type videoJob struct {
	mu     sync.Mutex
	id     string
	status string // "pending", "processing", "complete", "error"
	entry  history.Entry
	errMsg string
	cancel context.CancelFunc
}

var (
	videoJobsMu sync.Mutex
	videoJobs   = make(map[string]*videoJob)
)

func newVideoJob() *videoJob {
	videoJobsMu.Lock()
	defer videoJobsMu.Unlock()
	j := &videoJob{
		id:     jobs.GenerateID("video-"),
		status: "pending",
	}
	videoJobs[j.id] = j
	return j
}

func getVideoJob(id string) *videoJob {
	videoJobsMu.Lock()
	defer videoJobsMu.Unlock()
	return videoJobs[id]
}

// POST /api/video/start
func (s *server) handleVideoStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var wireReq generateRequest
	if err := json.NewDecoder(r.Body).Decode(&wireReq); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req, err := wireReq.toStudioRequest()
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Image == nil {
		httpError(w, http.StatusBadRequest, "image is required for video")
		return
	}

	job := newVideoJob()
	ctx, cancel := context.WithTimeout(context.Background(), videoJobTimeout)
	job.cancel = cancel

	go s.runVideoJob(ctx, job, req)

	respondJSON(w, http.StatusAccepted, map[string]string{"id": job.id})
}

func (s *server) runVideoJob(ctx context.Context, job *videoJob, req studio.Request) {
	defer job.cancel()

	job.mu.Lock()
	job.status = "processing"
	job.mu.Unlock()

	result, err := s.gen.Video(ctx, req)

	job.mu.Lock()
	defer job.mu.Unlock()
	if err != nil {
		job.status = "error"
		job.errMsg = err.Error()
		log.Error().Err(err).Str("job", job.id).Msg("Video generation failed")
		return
	}
	job.status = "complete"
	job.entry = result.Entry
	log.Info().Str("job", job.id).Str("entry", result.Entry.ID).Msg("Video job complete")
}

// Routes under /api/video/{id}/{status|cancel}
func (s *server) handleVideoRoutes(w http.ResponseWriter, r *http.Request) {
	jobID, action, ok := jobs.ParseRoute(r.URL.Path, "/api/video/", "video-")
	if !ok {
		httpError(w, http.StatusNotFound, "not found")
		return
	}

	job := getVideoJob(jobID)
	if job == nil {
		httpError(w, http.StatusNotFound, "job not found")
		return
	}

	switch action {
	case "status":
		if r.Method != http.MethodGet {
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		job.mu.Lock()
		resp := map[string]interface{}{
			"id":     job.id,
			"status": job.status,
		}
		if job.status == "complete" {
			resp["entry"] = job.entry
		}
		if job.errMsg != "" {
			resp["error"] = job.errMsg
		}
		job.mu.Unlock()
		respondJSON(w, http.StatusOK, resp)

	case "cancel":
		if r.Method != http.MethodPost {
			httpError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		job.cancel()
		respondJSON(w, http.StatusOK, map[string]string{"id": job.id, "status": "cancelling"})

	default:
		httpError(w, http.StatusNotFound, "not found")
	}
}
