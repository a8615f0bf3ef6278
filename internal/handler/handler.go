package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/segyhp/isp-admin/internal/domain"
	"github.com/segyhp/isp-admin/internal/logger"
	reqvalidator "github.com/segyhp/isp-admin/internal/validator"
	apperrors "github.com/segyhp/isp-admin/pkg/errors"
	"github.com/segyhp/isp-admin/pkg/response"
	"github.com/spf13/cast"
)

// base carries what every resource handler needs.
type base struct {
	validator *validator.Validate
	logger    *logger.Logger
}

func newBase(log *logger.Logger) base {
	return base{validator: reqvalidator.New(), logger: log}
}

// bind decodes the JSON body into dst and validates it.
func (b base) bind(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err == io.EOF {
			return apperrors.WrapValidation("request body is required", nil)
		}
		return apperrors.WrapValidation("invalid request body: "+err.Error(), err)
	}
	return reqvalidator.Struct(b.validator, dst)
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	response.FromError(w, r, b.logger, err)
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (uuid.UUID, error) {
	return parseUUID("id", mux.Vars(r)["id"])
}

func parseUUID(name, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.WrapValidation(fmt.Sprintf("%s must be a valid UUID", name), err)
	}
	return id, nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, apperrors.WrapValidation(fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name), err)
	}
	return &t, nil
}

func queryBool(r *http.Request, name string) bool {
	return cast.ToBool(r.URL.Query().Get(name))
}

// pageParams reads limit and offset as base 10 integers. Out of range values
// are clamped later by ListFilter.Normalize.
func pageParams(r *http.Request) (domain.ListFilter, error) {
	var page domain.ListFilter
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return page, apperrors.WrapValidation("limit must be an integer", err)
		}
		page.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return page, apperrors.WrapValidation("offset must be an integer", err)
		}
		page.Offset = offset
	}
	return page, nil
}

// formFile extracts the "file" part of a multipart upload limited to maxBytes.
func formFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (io.ReadCloser, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", apperrors.WrapValidation("invalid multipart upload", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", apperrors.WrapValidation("file is required", err)
	}
	return file, header.Filename, nil
}
