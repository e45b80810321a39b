// Package middleware runs the idempotency protocol around net/http handlers.
package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"encore.app/idempotency"
	"encore.app/idempotency/model"
)

const (
	DefaultMaxBodyBytes = 10 << 20
	formMemoryBytes     = 1 << 20
)

type config struct {
	maxBodyBytes int64
	routes       Routes
}

// Option configures the middleware.
type Option func(*config)

// WithMaxBodyBytes caps how much of a request body is buffered for hashing.
// Larger bodies are rejected.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) { c.maxBodyBytes = n }
}

// WithRoutes sets the table used to rebuild Location headers of replayed
// created-at-route responses.
func WithRoutes(rt Routes) Option {
	return func(c *config) { c.routes = rt }
}

type handler struct {
	coord *idempotency.Coordinator
	cfg   config
	next  http.Handler
}

// New returns middleware enforcing idempotency with coord. It has the
// func(http.Handler) http.Handler shape chi and most routers accept.
func New(coord *idempotency.Coordinator, opts ...Option) func(http.Handler) http.Handler {
	cfg := config{maxBodyBytes: DefaultMaxBodyBytes}
	for _, o := range opts {
		o(&cfg)
	}
	return func(next http.Handler) http.Handler {
		return &handler{coord: coord, cfg: cfg, next: next}
	}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idem := h.coord.NewIdempotency()

	req, err := h.buildRequest(r)
	if err != nil {
		errs.HTTPError(w, err)
		return
	}

	decision, err := idem.BeginRequest(r.Context(), req, w.Header())
	if err != nil {
		errs.HTTPError(w, err)
		return
	}

	switch decision.Outcome {
	case idempotency.PassThrough:
		h.next.ServeHTTP(w, r)
	case idempotency.Proceed:
		h.proceed(w, r, idem)
	case idempotency.Replay:
		h.replay(w, decision.Response)
	case idempotency.Conflict:
		errs.HTTPError(w, &errs.Error{Code: errs.Aborted, Message: decision.Message})
	case idempotency.KeyReusedForDifferentRequest:
		errs.HTTPError(w, &errs.Error{Code: errs.InvalidArgument, Message: decision.Message})
	default:
		errs.HTTPError(w, &errs.Error{Code: errs.Internal, Message: "unknown idempotency decision"})
	}
}

func (h *handler) proceed(w http.ResponseWriter, r *http.Request, idem *idempotency.Idempotency) {
	// Cache writes must happen even when the client went away.
	ctx := context.WithoutCancel(r.Context())
	rec := newRecorder(w)

	defer func() {
		if p := recover(); p != nil {
			idem.CancelRequest(ctx)
			panic(p)
		}
	}()

	h.next.ServeHTTP(rec, r)
	if rec.status == 0 && r.Context().Err() != nil {
		// Client gone before anything was written; there is nothing to replay.
		idem.CancelRequest(ctx)
		return
	}
	idem.CompleteRequest(ctx, rec.response())
}

func (h *handler) replay(w http.ResponseWriter, resp *model.ResponseModel) {
	header := w.Header()
	if resp.ContentType != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", resp.ContentType)
	}

	var value []byte
	if resp.Body != nil {
		value = resp.Body.Value
		if resp.Body.Kind == model.BodyKindCreatedAtRoute && h.cfg.routes != nil {
			location, err := h.cfg.routes.URL(resp.Body.RouteName, resp.Body.RouteValues)
			if err != nil {
				rlog.Warn("idempotency: cannot rebuild location of replayed response",
					"route", resp.Body.RouteName,
					"error", err,
				)
			} else {
				header.Set("Location", location)
			}
		}
	}

	w.WriteHeader(resp.StatusCode)
	if len(value) > 0 {
		if _, err := w.Write(value); err != nil {
			rlog.Debug("idempotency: writing replayed body failed", "error", err)
		}
	}
}

// buildRequest captures the parts of r the coordinator hashes. The body is
// buffered and put back so the handler can still read it.
func (h *handler) buildRequest(r *http.Request) (*model.Request, error) {
	req := &model.Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
	}
	if !idempotency.ProtectsMethod(r.Method) || r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, h.cfg.maxBodyBytes+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, errs.WrapCode(err, errs.InvalidArgument, "cannot read request body")
	}
	if int64(len(body)) > h.cfg.maxBodyBytes {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "request body too large"}
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > 0 {
		req.Body = body
	}

	if err := parseForm(req, r.Header.Get("Content-Type"), body); err != nil {
		return nil, errs.WrapCode(err, errs.InvalidArgument, "cannot parse form")
	}
	return req, nil
}

// parseForm fills the form fields and files of req from a copy of the body.
func parseForm(req *model.Request, contentType string, body []byte) error {
	if contentType == "" {
		return nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Not a form; the raw body is hashed on its own.
		return nil
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return err
		}
		req.Form = form
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return errors.New("multipart body without boundary")
		}
		form, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(formMemoryBytes)
		if err != nil {
			return err
		}
		defer form.RemoveAll()

		req.Form = url.Values(form.Value)
		for field, headers := range form.File {
			for _, fh := range headers {
				req.Files = append(req.Files, model.File{
					FieldName: field,
					FileName:  fh.Filename,
					Length:    fh.Size,
					Content:   readFile(fh),
				})
			}
		}
	}
	return nil
}

func readFile(fh *multipart.FileHeader) []byte {
	f, err := fh.Open()
	if err != nil {
		return nil
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil || len(content) == 0 {
		return nil
	}
	return content
}
