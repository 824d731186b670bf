package milkapi

import "strconv"

type field struct {
	key, value string
}

// Form is an ordered multipart form body.
type Form struct {
	fields []field
}

func NewForm() *Form { return &Form{} }

// Set replaces key if present, otherwise appends it.
func (f *Form) Set(key, value string) *Form {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].value = value
			return f
		}
	}
	f.fields = append(f.fields, field{key, value})
	return f
}

func (f *Form) SetInt(key string, value int) *Form {
	return f.Set(key, strconv.Itoa(value))
}

// WithToken attaches the session token the backend authenticates with.
func (f *Form) WithToken(token string) *Form {
	return f.Set("token", token)
}

func (f *Form) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.value, true
		}
	}
	return "", false
}

func (f *Form) Len() int {
	if f == nil {
		return 0
	}
	return len(f.fields)
}

// Clone copies f so callers can extend a shared base form.
func (f *Form) Clone() *Form {
	if f == nil {
		return NewForm()
	}
	return &Form{fields: append([]field(nil), f.fields...)}
}

var secretFields = map[string]bool{
	"token":        true,
	"password":     true,
	"new_password": true,
	"reset_key":    true,
	"otp":          true,
	"auth_code":    true,
}

// LogFields returns the form for logging with credentials masked.
func (f *Form) LogFields() map[string]interface{} {
	out := make(map[string]interface{}, f.Len())
	if f == nil {
		return out
	}
	for _, fl := range f.fields {
		if secretFields[fl.key] {
			out[fl.key] = "***"
			continue
		}
		out[fl.key] = fl.value
	}
	return out
}
