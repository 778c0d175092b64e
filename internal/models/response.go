package models

// uniform error payload
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// represents the response structure for the owner interview list
type InterviewsResponse struct {
	Total int         `json:"total"`
	Items []Interview `json:"items"`
}

// represents the response structure for the owner candidate list
type CandidatesResponse struct {
	InterviewID string      `json:"interviewId"`
	Total       int         `json:"total"`
	Items       []Candidate `json:"items"`
}
