package httpclient

import (
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/walacor/walacor-go/dto"
)

const (
	unknownReason  = "UnknownReason"
	unknownMessage = "Unknown error message."
)

// statusError maps a platform status onto the dto error types.
// 2xx and 422 are not errors at this level.
func statusError(resp dto.Response) error {
	switch code := resp.StatusCode; {
	case isSuccess(code), code == http.StatusUnprocessableEntity:
		return nil
	case code == http.StatusBadRequest:
		pe := firstPlatformError(resp.Body)
		return &dto.BadRequestError{Reason: pe.Reason, Message: pe.Message, Code: code}
	case code == http.StatusInternalServerError:
		pe := firstPlatformError(resp.Body)
		return &dto.InternalServerError{Reason: pe.Reason, Message: pe.Message, Code: code}
	default:
		return &dto.APIConnectionError{StatusCode: code, Reason: http.StatusText(code)}
	}
}

// firstPlatformError reads errors[0] of a rejection body, tolerating
// anything that is not the expected shape.
func firstPlatformError(body []byte) dto.PlatformError {
	pe := dto.PlatformError{Reason: unknownReason, Message: unknownMessage}
	if !gjson.ValidBytes(body) {
		return pe
	}
	first := gjson.GetBytes(body, "errors.0")
	if r := first.Get("reason"); r.Type == gjson.String && r.Str != "" {
		pe.Reason = r.Str
	}
	if m := first.Get("message"); m.Type == gjson.String && m.Str != "" {
		pe.Message = m.Str
	}
	return pe
}
