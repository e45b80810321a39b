package middleware

import (
	"bytes"
	"net/http"

	"encore.app/idempotency/model"
)

// recorder writes through to the client while keeping a copy of the
// response for the cache.
type recorder struct {
	http.ResponseWriter

	status      int
	header      http.Header
	body        bytes.Buffer
	routeName   string
	routeValues map[string]string
}

func newRecorder(w http.ResponseWriter) *recorder {
	return &recorder{ResponseWriter: w}
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
		r.header = r.ResponseWriter.Header().Clone()
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

func (r *recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		if r.status == 0 {
			r.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

func (r *recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *recorder) markCreatedAtRoute(name string, values map[string]string) {
	r.routeName = name
	r.routeValues = values
}

func (r *recorder) response() *model.ResponseModel {
	status, header := r.status, r.header
	if status == 0 {
		status = http.StatusOK
		header = r.ResponseWriter.Header().Clone()
	}

	value := bytes.Clone(r.body.Bytes())
	body := model.PlainBody(value)
	if r.routeName != "" {
		body = model.CreatedAtRouteBody(r.routeName, r.routeValues, value)
	}

	return &model.ResponseModel{
		StatusCode:  status,
		ContentType: header.Get("Content-Type"),
		Headers:     header,
		Body:        body,
	}
}

// findRecorder walks wrapped writers down to the recorder, if there is one.
func findRecorder(w http.ResponseWriter) *recorder {
	for w != nil {
		if rec, ok := w.(*recorder); ok {
			return rec
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return nil
		}
		w = u.Unwrap()
	}
	return nil
}
