package core

import (
	"net/url"
	"strconv"
)

// Form is a url-encoded request body that preserves insertion order.
// Signed requests require the signature to cover the exact bytes sent, so
// parameters must never be reordered or re-encoded after signing; a plain
// url.Values would sort keys on Encode.
type Form struct {
	pairs []formPair
}

type formPair struct {
	key   string
	value string
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Add appends a key/value pair and returns the form for chaining.
func (f *Form) Add(key, value string) *Form {
	f.pairs = append(f.pairs, formPair{key: key, value: value})
	return f
}

// AddInt appends an integer parameter.
func (f *Form) AddInt(key string, value int64) *Form {
	return f.Add(key, strconv.FormatInt(value, 10))
}

// AddBool appends a boolean parameter as "true" or "false".
func (f *Form) AddBool(key string, value bool) *Form {
	return f.Add(key, strconv.FormatBool(value))
}

// Empty reports whether the form has no parameters.
func (f *Form) Empty() bool {
	return f == nil || len(f.pairs) == 0
}

// Encode serializes the form as key=value pairs joined by '&', in insertion
// order, with both keys and values query-escaped.
func (f *Form) Encode() string {
	if f.Empty() {
		return ""
	}
	var buf []byte
	for i, p := range f.pairs {
		if i > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, url.QueryEscape(p.key)...)
		buf = append(buf, '=')
		buf = append(buf, url.QueryEscape(p.value)...)
	}
	return string(buf)
}
