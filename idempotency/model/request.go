package model

import (
	"net/http"
	"net/url"
)

// Request is the part of an incoming HTTP request the coordinator needs.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header

	// Body is nil when the request carried no body.
	Body []byte
	// Form holds the parsed form fields when the request was form encoded.
	Form url.Values
	// Files holds the uploaded files of a multipart request.
	Files []File
}

// File is an uploaded form file.
type File struct {
	FieldName string
	FileName  string
	Length    int64
	// Content is nil when the file could not be read.
	Content []byte
}

// QueryString returns the query string the way it appeared on the URI,
// including the leading question mark.
func (r *Request) QueryString() string {
	if r.RawQuery == "" {
		return ""
	}
	return "?" + r.RawQuery
}
