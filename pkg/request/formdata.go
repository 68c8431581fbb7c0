package request

import (
	"bytes"
	"io"
	"mime/multipart"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field    string
	filename string
	reader   io.Reader
}

// FormData is a multipart body. Passing one to WithBody skips JSON encoding
// and lets the multipart writer choose the content type.
type FormData struct {
	fields []formField
	files  []formFile
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *FormData) AddFile(field, filename string, r io.Reader) *FormData {
	f.files = append(f.files, formFile{field: field, filename: filename, reader: r})
	return f
}

func (f *FormData) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
