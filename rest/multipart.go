package rest

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
)

// MultipartBody collects fields and files for a multipart/form-data POST.
// The transaction layer treats it as an opaque body producer: encode returns
// the finished byte stream and the boundary-bearing content type that must
// accompany it.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload parts.
	Files []FileField
}

// FileField is one file part of a multipart body.
type FileField struct {
	// FieldName is the form field name (e.g., "file").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the part's MIME type. Empty means
	// application/octet-stream.
	ContentType string
	// Data is the file content. Ignored when Reader is set.
	Data []byte
	// Reader supplies the content for large files.
	Reader io.Reader
}

// encode writes all parts and returns the body reader plus the
// multipart/form-data content type carrying the generated boundary.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		part, err := m.createPart(w, f)
		if err != nil {
			return nil, "", err
		}
		if f.Reader != nil {
			_, err = io.Copy(part, f.Reader)
		} else {
			_, err = part.Write(f.Data)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// createPart opens a writer for one file part, honoring a custom MIME type.
func (m *MultipartBody) createPart(w *multipart.Writer, f FileField) (io.Writer, error) {
	if f.ContentType == "" {
		return w.CreateFormFile(f.FieldName, f.FileName)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
	header.Set("Content-Type", f.ContentType)
	return w.CreatePart(header)
}

// escapeQuotes escapes quote and backslash characters in disposition values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
