package dto

// MessageRequest carries the job description a message is written for.
type MessageRequest struct {
	JobDescription string `json:"jobDescription"`
}

// SendApplicationRequest asks for an application email to be generated and sent to each address.
type SendApplicationRequest struct {
	JobDescription string   `json:"jobDescription"`
	Emails         []string `json:"emails"`
	JobLink        string   `json:"jobLink,omitempty"`
}

// DMResponse holds a generated direct message.
type DMResponse struct {
	Message string `json:"message"`
}

// EmailTemplateResponse holds a generated email.
type EmailTemplateResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendApplicationResponse lists per-address send outcomes.
type SendApplicationResponse struct {
	Results []EmailResult `json:"results"`
}
