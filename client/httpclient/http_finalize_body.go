package httpclient

import (
	"fmt"

	"github.com/walacor/walacor-go/utils"
)

// FinalizeBody prepares BodyBytes and ContentType exactly once per call.
// Rules:
// - If BodyBytes is already set, we respect it.
// - Otherwise we build BodyBytes from Multipart or Body.
// - JSON is the content type whenever the call is not multipart.
func (r *HTTPRequest) FinalizeBody() error {
	if r.BodyBytes != nil {
		if r.ContentType == "" {
			r.ContentType = utils.ContentTypeJSON
		}
		return nil
	}

	bodyBuf, ct, err := utils.PrepareBody(r.Body, r.Multipart)
	if err != nil {
		return fmt.Errorf("prepare body: %w", err)
	}

	r.BodyBytes = bodyBuf
	// Prefer explicit ContentType if some middleware set it.
	if r.ContentType == "" {
		r.ContentType = ct
	}
	if r.ContentType == "" {
		r.ContentType = utils.ContentTypeJSON
	}
	return nil
}
