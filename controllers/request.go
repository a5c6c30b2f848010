package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	restful "github.com/emicklei/go-restful/v3"
	"go.uber.org/zap"

	"tierlist-restful/apperrors"
	"tierlist-restful/services"
)

// multipartMemory is how much of a multipart body is kept in memory before
// file parts spill to temporary files.
const multipartMemory = 8 << 20

// handler carries what every resource controller needs besides its service.
type handler struct {
	validate *Validator
	logger   *zap.Logger
}

func (h handler) fail(request *restful.Request, response *restful.Response, err error) {
	writeError(h.logger, request, response, err)
}

// decode reads a JSON body into v and validates it.
func (h handler) decode(request *restful.Request, v any) error {
	if err := readJSON(request, v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

func readJSON(request *restful.Request, v any) error {
	err := request.ReadEntity(v)
	if err == nil {
		return nil
	}
	var (
		typeErr *json.UnmarshalTypeError
		restErr restful.ServiceError
	)
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.Validation("Request body must be a JSON object")
	case errors.As(err, &typeErr):
		return apperrors.Validation("Invalid request body", apperrors.FieldError{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("Must be of type %s, got %s", typeErr.Type, typeErr.Value),
		})
	case errors.As(err, &restErr):
		return apperrors.Validation(restErr.Message)
	default:
		return bodyError(err, "Malformed JSON body")
	}
}

// bodyError tells an oversized body apart from a malformed one.
func bodyError(err error, message string) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.TooLarge("Request body exceeds %d bytes", maxErr.Limit)
	}
	return apperrors.Validation(message + ": " + err.Error())
}

func pathID(request *restful.Request) (uint, error) {
	// 63 bits keeps ids inside the signed range every driver accepts.
	id, err := strconv.ParseUint(request.PathParameter("id"), 10, 63)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid id", apperrors.FieldError{Field: "id", Message: "Must be a positive integer"})
	}
	return uint(id), nil
}

func isMultipart(request *restful.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.HeaderParameter(restful.HEADER_ContentType))
	return err == nil && mediaType == "multipart/form-data"
}

// multipartBody is a parsed multipart/form-data request with at most one
// file part of interest.
type multipartBody struct {
	form *multipart.Form
	file multipart.File
	name string
}

func readMultipart(request *restful.Request, fileField string) (*multipartBody, error) {
	r := request.Request
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, bodyError(err, "Malformed multipart body")
	}
	body := &multipartBody{form: r.MultipartForm}
	file, header, err := r.FormFile(fileField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		body.Close()
		return nil, bodyError(err, "Malformed file part")
	default:
		body.file = file
		body.name = header.Filename
	}
	return body, nil
}

func (b *multipartBody) Value(key string) string {
	if values := b.form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Uint parses key as a positive integer; an absent key yields 0.
func (b *multipartBody) Uint(key string) (uint, error) {
	raw := b.Value(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 63)
	if err != nil || v == 0 {
		return 0, apperrors.Validation("Invalid request body", apperrors.FieldError{Field: key, Message: "Must be a positive integer"})
	}
	return uint(v), nil
}

// Upload returns the file part, or nil when the request carried none.
func (b *multipartBody) Upload() *services.ImageUpload {
	if b.file == nil {
		return nil
	}
	return &services.ImageUpload{Filename: b.name, Content: b.file}
}

func (b *multipartBody) Close() {
	if b.file != nil {
		_ = b.file.Close()
	}
	_ = b.form.RemoveAll()
}
