package fingerprint

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"encore.app/idempotency/model"
)

// Parts collects the hashed parts of req in a fixed category order: body,
// form fields, files, path. Files are sorted so the order in which they were
// collected never changes the result.
func Parts(req *model.Request) []Part {
	var parts []Part

	if req.Body != nil {
		parts = append(parts, Part{Kind: PartBody, Bytes: req.Body})
	}

	if req.Form != nil {
		values := make(map[string][]string, len(req.Form))
		for k, v := range req.Form {
			values[k] = v
		}
		parts = append(parts, Part{Kind: PartForm, Values: values})
	}

	files := slices.Clone(req.Files)
	slices.SortStableFunc(files, compareFiles)
	for _, f := range files {
		if f.Content != nil {
			parts = append(parts, Part{Kind: PartFile, Bytes: f.Content})
			continue
		}
		// Unreadable upload: identify it by its metadata.
		parts = append(parts, Part{
			Kind: PartFile,
			Text: f.FileName + "_" + strconv.FormatInt(f.Length, 10) + "_" + f.FieldName,
		})
	}

	if req.Path != "" {
		parts = append(parts, Part{Kind: PartPath, Text: req.Path})
	}

	return parts
}

// Compute returns the request data hash of req.
func Compute(h Hasher, req *model.Request) (string, error) {
	sum, err := h.Hash(Parts(req)...)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s %s: %w", req.Method, req.Path, err)
	}
	return sum, nil
}

func compareFiles(a, b model.File) int {
	if c := cmp.Compare(a.FieldName, b.FieldName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FileName, b.FileName); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Length, b.Length); c != 0 {
		return c
	}
	return bytes.Compare(a.Content, b.Content)
}
