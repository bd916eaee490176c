package worker

import "github.com/domino14/guobiao/analyzer"

// Job is a batch of analyzer requests claimed from the queue
type Job struct {
	// Unique identifier for this job
	JobID string `json:"jobId"`

	// Requests to answer, in order
	Requests []analyzer.Request `json:"requests"`
}

// JobResult pairs each request with its response or error.
type JobResult struct {
	JobID   string       `json:"jobId"`
	Results []ItemResult `json:"results"`
}

type ItemResult struct {
	Response *analyzer.Response `json:"response,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// HeartbeatProgress represents progress information sent in heartbeats
type HeartbeatProgress struct {
	// Requests answered so far
	Done int `json:"done"`

	// Total number of requests in the job
	Total int `json:"total"`

	// Optional status message
	Status string `json:"status,omitempty"`
}
