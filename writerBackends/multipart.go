package writerbackends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"hiredesk/media"
)

// formField is one auxiliary text field sent next to the file part.
type formField struct {
	name, value string
}

// createMultipartBody builds a multipart/form-data body holding the original
// bytes under "file" followed by the given fields.
func createMultipartBody(in media.Input, fields ...formField) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": uploadName(in),
	}))
	contentType := in.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write file part: %w", err)
	}

	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.name, err)
		}
	}

	// Close the multipart writer to finalize the form
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &body, writer.FormDataContentType(), nil
}

// postForm sends the form and returns the status code and full body.
// Transport failures wrap media.ErrNetwork.
func postForm(ctx context.Context, client *http.Client, url string, in media.Input, fields ...formField) (int, []byte, error) {
	body, contentType, err := createMultipartBody(in, fields...)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hiredesk/1.0")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", media.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response: %v", media.ErrNetwork, err)
	}
	return resp.StatusCode, respBody, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// decodeObject parses a JSON object body; a non-object body is an error.
func decodeObject(body []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", media.ErrMalformedResponse, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: empty json body", media.ErrMalformedResponse)
	}
	return out, nil
}

// firstField returns the first non-empty value among keys, stringified.
func firstField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch tv := v.(type) {
		case string:
			s = tv
		case float64:
			s = strconv.FormatFloat(tv, 'f', -1, 64)
		default:
			s = fmt.Sprint(tv)
		}
		if s != "" {
			return s
		}
	}
	return ""
}
