package submit

// Response is the backend verdict on a submission. Deployed backends answer
// with different envelopes, so success is recognised through any of three
// signals.
type Response struct {
	Success    bool   `json:"success"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// OK reports whether any success signal is present.
func (r *Response) OK() bool {
	if r == nil {
		return false
	}
	return r.Success || r.Status == "success" || r.StatusCode == 200
}

// ResponseError is returned when the backend answers but rejects the
// submission.
type ResponseError struct {
	Response *Response
}

func (e *ResponseError) Error() string {
	if e.Response != nil && e.Response.Message != "" {
		return "submit: rejected: " + e.Response.Message
	}
	return "submit: rejected"
}
