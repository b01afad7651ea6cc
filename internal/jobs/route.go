package jobs

import (
	"strings"
)

// ParseRoute extracts the job ID and action from a URL path like
// /api/video/{id}/{action}. apiPrefix should be like "/api/video/",
// idPrefix should be like "video-". Returns the normalized job ID and
// action, or ok=false if the path is invalid.
func ParseRoute(path, apiPrefix, idPrefix string) (jobID, action string, ok bool) {
	parts := strings.Split(strings.TrimPrefix(path, apiPrefix), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	jobID = parts[0]
	if !strings.HasPrefix(jobID, idPrefix) {
		jobID = idPrefix + jobID
	}
	return jobID, parts[1], true
}
