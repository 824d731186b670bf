package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const maxRequestBody = 1 << 20

var ErrBadBody = errors.New("invalid request body")

// Fields reads a flat JSON object, urlencoded form or multipart form into
// strings. Numbers keep their literal text.
func Fields(r *http.Request) (map[string]string, error) {
	out := map[string]string{}
	if r.Body == nil || r.Body == http.NoBody {
		return out, nil
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		for k, v := range raw {
			switch t := v.(type) {
			case nil:
			case string:
				out[k] = t
			case json.Number:
				out[k] = t.String()
			case bool:
				out[k] = fmt.Sprint(t)
			default:
				b, _ := json.Marshal(t)
				out[k] = string(b)
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxRequestBody); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				out[k] = vs[0]
			}
		}
	default:
		r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		for k := range r.PostForm {
			out[k] = r.PostForm.Get(k)
		}
	}
	return out, nil
}

// Trimmed returns fields[key] without surrounding spaces.
func Trimmed(fields map[string]string, key string) string {
	return strings.TrimSpace(fields[key])
}

// DecodeJSON strictly decodes a JSON body into v.
func DecodeJSON(r *http.Request, v any) error {
	b := new(bytes.Buffer)
	if _, err := b.ReadFrom(http.MaxBytesReader(nil, r.Body, maxRequestBody)); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	dec := json.NewDecoder(b)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return nil
}
