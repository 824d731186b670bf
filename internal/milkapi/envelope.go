package milkapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Envelope status values.
const (
	StatusError    = -1
	StatusFailure  = 0
	StatusSuccess  = 1
	StatusInactive = 2
)

// Envelope is the body every milk-api endpoint answers with.
type Envelope struct {
	Status int
	Msg    string
	Data   json.RawMessage
	Total  *int

	raw []byte
}

func (e *Envelope) UnmarshalJSON(b []byte) error {
	var w struct {
		Status json.RawMessage `json:"status"`
		Msg    string          `json:"msg"`
		Data   json.RawMessage `json:"data"`
		Total  json.RawMessage `json:"total"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	status, err := flexInt(w.Status)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	e.Status = status
	e.Msg = w.Msg
	e.Data = w.Data
	e.Total = nil
	if len(w.Total) > 0 && !bytes.Equal(w.Total, []byte("null")) {
		t, err := flexInt(w.Total)
		if err != nil {
			return fmt.Errorf("total: %w", err)
		}
		e.Total = &t
	}
	e.raw = append([]byte(nil), b...)
	return nil
}

// flexInt accepts 1, "1" or a missing value.
func flexInt(b json.RawMessage) (int, error) {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		i, err := strconv.Atoi(n.String())
		return i, err
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (e *Envelope) OK() bool { return e.Status == StatusSuccess }

// Inactive reports the "no active slot" answer, which is not a failure.
func (e *Envelope) Inactive() bool { return e.Status == StatusInactive }

// Err returns an *APIError for any status other than success.
func (e *Envelope) Err() error {
	if e.OK() {
		return nil
	}
	return &APIError{Status: e.Status, Msg: e.Msg}
}

// Decode unmarshals the whole body into v, for endpoints that put their payload
// next to status (login, reset flow).
func (e *Envelope) Decode(v any) error {
	if len(e.raw) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(e.raw, v)
}

// DecodeData unmarshals the data field into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 || bytes.Equal(e.Data, []byte("null")) {
		return ErrNoData
	}
	return json.Unmarshal(e.Data, v)
}

var (
	ErrEmptyBody = errors.New("milk-api: empty response body")
	ErrNoData    = errors.New("milk-api: response has no data")
)

// APIError is a request the backend understood and refused.
type APIError struct {
	Status int
	Msg    string
}

func (e *APIError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("milk-api: status %d", e.Status)
	}
	return fmt.Sprintf("milk-api: status %d: %s", e.Status, e.Msg)
}

// IsAPIError unwraps err into an *APIError.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
