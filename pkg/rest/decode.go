package rest

import (
	"encoding/json"

	"github.com/bytedance/sonic"

	"mbx/pkg/core"
)

// Decode interprets an exchange response. A success status decodes the body
// into T, returning a DecodeError carrying the original text when the body
// does not match. A failure status decodes the body as the documented error
// shape; when the body is unparseable (HTML error page, empty string), an
// APIError is synthesized from the HTTP status code and the raw body so the
// caller always receives a classified error.
func Decode[T any](statusCode int, body []byte) (T, error) {
	var result T
	if statusCode >= 200 && statusCode < 300 {
		if err := sonic.Unmarshal(body, &result); err != nil {
			return result, &core.DecodeError{Err: err, Text: string(body)}
		}
		return result, nil
	}

	if apiErr, ok := parseAPIError(body); ok {
		apiErr.StatusCode = statusCode
		apiErr.Type = core.ClassifyCode(apiErr.Code)
		if apiErr.Type == core.ErrorTypeUnknown {
			apiErr.Type = core.ClassifyStatus(statusCode)
		}
		return result, apiErr
	}

	return result, &core.APIError{
		Type:       core.ClassifyStatus(statusCode),
		StatusCode: statusCode,
		Code:       int64(statusCode),
		Message:    string(body),
	}
}

// DecodeResponse applies Decode to a transport response.
func DecodeResponse[T any](resp *Response) (T, error) {
	return Decode[T](resp.StatusCode, resp.Body)
}

// parseAPIError reports whether body is the documented {"code":..,"msg":..}
// error object. Both fields must be present.
func parseAPIError(body []byte) (*core.APIError, bool) {
	var probe map[string]json.RawMessage
	if err := sonic.Unmarshal(body, &probe); err != nil {
		return nil, false
	}
	if _, ok := probe["code"]; !ok {
		return nil, false
	}
	if _, ok := probe["msg"]; !ok {
		return nil, false
	}

	apiErr := &core.APIError{}
	if err := sonic.Unmarshal(body, apiErr); err != nil {
		return nil, false
	}
	return apiErr, true
}
