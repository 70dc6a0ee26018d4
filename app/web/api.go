package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"scribefeed/app/feed"
)

// JobsResponse is the JSON response for /api/v1/jobs
type JobsResponse struct {
	Jobs      []APIJob  `json:"jobs"`
	Stats     APIStats  `json:"stats"`
	Selection []string  `json:"selection"`
	Live      bool      `json:"live"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// APIJob represents a job in JSON API response
type APIJob struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"file_name,omitempty"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags,omitempty"`
	Progress  float64   `json:"progress,omitempty"`
	Error     string    `json:"error,omitempty"`
	Duration  float64   `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	Selected  bool      `json:"selected"`
}

// APIStats represents aggregated statistics in JSON API response
type APIStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Pausing    int `json:"pausing"`
	Paused     int `json:"paused"`
	Cancelling int `json:"cancelling"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
}

// APIBulkResponse is the JSON response for bulk command endpoints
type APIBulkResponse struct {
	Batch     string       `json:"batch"`
	Command   string       `json:"command"`
	Results   []APIOutcome `json:"results"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// APIOutcome represents a per-job bulk result
type APIOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// toAPIJob converts feed.Job to APIJob
func toAPIJob(job feed.Job, selected bool) APIJob {
	return APIJob{
		ID:        job.ID,
		Name:      job.Name,
		FileName:  job.FileName,
		Status:    string(job.Status),
		Tags:      job.Tags,
		Progress:  job.Progress,
		Error:     job.Error,
		Duration:  job.Duration,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
		Selected:  selected,
	}
}

// toAPIBulkResponse converts feed.Result to APIBulkResponse
func toAPIBulkResponse(res feed.Result) APIBulkResponse {
	results := make([]APIOutcome, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		out := APIOutcome{ID: o.JobID, OK: o.OK()}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		results = append(results, out)
	}
	return APIBulkResponse{
		Batch:     res.Batch,
		Command:   string(res.Kind),
		Results:   results,
		Succeeded: res.Succeeded(),
		Failed:    res.Failed(),
	}
}

// handleJobs returns the current job view with selection and connection status,
// designed for the dashboard poll loop and for CLI/jq consumption
func (s *Server) handleJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := s.feed.Jobs()
	selection := s.feed.Selected()
	selected := make(map[string]bool, len(selection))
	for _, id := range selection {
		selected[id] = true
	}

	apiJobs := make([]APIJob, 0, len(jobs))
	stats := APIStats{Total: len(jobs)}
	for _, job := range jobs {
		apiJobs = append(apiJobs, toAPIJob(job, selected[job.ID]))

		if job.Status.Active() {
			stats.Active++
		}
		switch job.Status {
		case feed.StatusQueued:
			stats.Queued++
		case feed.StatusProcessing:
			stats.Processing++
		case feed.StatusPausing:
			stats.Pausing++
		case feed.StatusPaused:
			stats.Paused++
		case feed.StatusCancelling:
			stats.Cancelling++
		case feed.StatusCompleted:
			stats.Completed++
		case feed.StatusFailed:
			stats.Failed++
		case feed.StatusCancelled:
			stats.Cancelled++
		}
	}

	resp := JobsResponse{
		Jobs:      apiJobs,
		Stats:     stats,
		Selection: selection,
		Live:      s.feed.Live(),
		State:     string(s.feed.State()),
		Timestamp: time.Now(),
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleSelection updates the selection. Actions: select, deselect, clear, all.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string   `json:"action"`
		IDs    []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var affected int
	switch req.Action {
	case "select":
		affected = s.feed.Select(req.IDs...)
	case "deselect":
		affected = s.feed.Deselect(req.IDs...)
	case "all":
		affected = s.feed.SelectAll()
	case "clear":
		s.feed.ClearSelection()
	default:
		s.writeJSONError(w, http.StatusBadRequest, "unknown selection action")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"selection": s.feed.Selected(),
		"affected":  affected,
	})
}

// handleBulk runs a bulk command over the given ids, or over the current
// selection when ids are omitted
func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string   `json:"command"`
		IDs     []string `json:"ids"`
		Tag     string   `json:"tag"`
		Name    string   `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := feed.Command{Kind: feed.CommandKind(req.Command), Tag: req.Tag, Name: req.Name}
	res, err := s.feed.Apply(r.Context(), req.IDs, cmd)
	if err != nil {
		if errors.Is(err, feed.ErrEmptySelection) {
			s.writeJSONError(w, http.StatusBadRequest, "nothing selected")
			return
		}
		s.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, toAPIBulkResponse(res))
}

// handleLastBulk returns the result of the most recent bulk command
func (s *Server) handleLastBulk(w http.ResponseWriter, _ *http.Request) {
	res, ok := s.feed.LastResult()
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "no bulk command executed yet")
		return
	}
	s.writeJSON(w, http.StatusOK, toAPIBulkResponse(res))
}

// handleTags returns the tag catalog for the tag picker
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	if s.tags == nil {
		s.writeJSONError(w, http.StatusNotFound, "tag catalog not configured")
		return
	}

	tags, err := s.tags.Tags(r.Context())
	if err != nil {
		log.Printf("[WARN] failed to fetch tags: %v", err)
		s.writeJSONError(w, http.StatusBadGateway, "failed to fetch tags")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func (s *Server) writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[WARN] failed to encode JSON error response: %v", err)
	}
}
