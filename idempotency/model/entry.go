package model

// Entry is what we store in the cache slot of an idempotency key.
//
// It has two shapes. An in-flight marker only carries RequestInFlightID and
// means an attempt is still executing. A completed record carries the request
// and response fields and never a RequestInFlightID.
type Entry struct {
	RequestInFlightID string `json:"Request.Inflight,omitempty"`

	RequestMethod      string `json:"Request.Method,omitempty"`
	RequestPath        string `json:"Request.Path,omitempty"`
	RequestQueryString string `json:"Request.QueryString,omitempty"`
	RequestDataHash    string `json:"Request.DataHash,omitempty"`

	ResponseStatusCode  int                 `json:"Response.StatusCode,omitempty"`
	ResponseContentType string              `json:"Response.ContentType,omitempty"`
	ResponseHeaders     map[string][]string `json:"Response.Headers,omitempty"`
	ResponseBody        *Body               `json:"Context.Result,omitempty"`
}

// NewInFlightEntry returns the marker written by the attempt identified by id.
func NewInFlightEntry(id string) Entry {
	return Entry{RequestInFlightID: id}
}

// IsInFlight reports whether the entry is an in-flight marker.
func (e Entry) IsInFlight() bool {
	return e.RequestInFlightID != ""
}

// HasCompletedFields reports whether any field of the completed shape is set.
func (e Entry) HasCompletedFields() bool {
	return e.RequestMethod != "" ||
		e.RequestPath != "" ||
		e.RequestQueryString != "" ||
		e.RequestDataHash != "" ||
		e.ResponseStatusCode != 0 ||
		e.ResponseContentType != "" ||
		len(e.ResponseHeaders) > 0 ||
		e.ResponseBody != nil
}

// Response rebuilds the response model stored in a completed record.
func (e Entry) Response() *ResponseModel {
	resp := &ResponseModel{
		StatusCode:  e.ResponseStatusCode,
		ContentType: e.ResponseContentType,
		Headers:     cloneHeaders(e.ResponseHeaders),
	}
	if e.ResponseBody != nil {
		resp.Body = e.ResponseBody.Clone()
	} else {
		resp.Body = PlainBody(nil)
	}
	return resp
}

func cloneHeaders(in map[string][]string) map[string][]string {
	if in == nil {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
