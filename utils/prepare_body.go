package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/walacor/walacor-go/dto"
)

const ContentTypeJSON = "application/json"

// PrepareBody encodes a request body once so it can be replayed on retry.
// Multipart payloads take precedence over Body.
func PrepareBody(body any, file *dto.MultipartFile) ([]byte, string, error) {
	if file != nil {
		return PrepareMultipartBody(file)
	}
	return PrepareJSONBody(body)
}

// PrepareJSONBody marshals body. Raw bytes and json.RawMessage pass through.
func PrepareJSONBody(body any) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case json.RawMessage:
		return []byte(v), ContentTypeJSON, nil
	case []byte:
		return v, ContentTypeJSON, nil
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal json body: %w", err)
	}
	return buf, ContentTypeJSON, nil
}

// PrepareMultipartBody writes a single file part and returns the body with
// its boundary content type.
func PrepareMultipartBody(file *dto.MultipartFile) ([]byte, string, error) {
	if file.Reader == nil {
		return nil, "", errors.New("multipart file has no reader")
	}
	field := file.Field
	if field == "" {
		field = "file"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = GuessMimeType(file.FileName)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(file.FileName)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
