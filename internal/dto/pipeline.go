package dto

// RunRequest triggers one pass over the job feed.
type RunRequest struct {
	StoreMailsOnly bool `json:"storeMailsOnly"`
}

// EmailResult reports one outreach attempt.
type EmailResult struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
}

// RunResponse is the fixed response shape of the pipeline endpoint.
type RunResponse struct {
	Message      string        `json:"message"`
	LogArray     []string      `json:"logArray,omitempty"`
	EmailResults []EmailResult `json:"emailResults,omitempty"`
}
