package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type uploadedFile struct {
	Filename string
	Data     []byte
}

// decodeMultipart reads the JSON request part and the optional image
// file part from a multipart form. Plain JSON bodies are accepted too,
// for clients that have no file to send.
func (h *Handlers) decodeMultipart(r *http.Request, jsonPart string, dst interface{}) (*uploadedFile, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return nil, decodeJSON(r, dst)
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, fmt.Errorf("invalid multipart form")
	}

	payload := r.FormValue(jsonPart)
	if payload == "" {
		return nil, fmt.Errorf("%s part is required", jsonPart)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return nil, fmt.Errorf("invalid %s json", jsonPart)
	}

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid file part")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("read file part")
	}
	if int64(len(data)) > h.maxUpload {
		return nil, fmt.Errorf("file exceeds upload limit")
	}

	return &uploadedFile{Filename: header.Filename, Data: data}, nil
}
