package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/rpupo63/cms-backend/errs"
)

const maxBodyBytes = 1 << 20

// requestValidator checks request DTOs and renders the first failure in English
type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() requestValidator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	return requestValidator{validate: validate, translator: translator}
}

func (v requestValidator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return errs.NewInvalidFieldError(first.Field(), first.Translate(v.translator))
	}
	return errs.NewBadRequestError(err.Error())
}

// decodeBody reads a JSON body into the struct dst and validates it
func (v requestValidator) decodeBody(w http.ResponseWriter, r *http.Request, payloadName string, dst any) error {
	if err := decodeJSON(w, r, payloadName, dst); err != nil {
		return err
	}
	return v.Struct(dst)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, payloadName string, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return errs.NewMalformedPayloadError(payloadName, err)
	}
	return nil
}

// parsePostListQuery reads the listing options from the query string
func (v requestValidator) parsePostListQuery(values url.Values) (postListQuery, error) {
	q := postListQuery{
		Status:    values.Get("status"),
		Search:    strings.TrimSpace(values.Get("search")),
		SortBy:    values.Get("sortBy"),
		SortOrder: strings.ToLower(values.Get("sortOrder")),
	}
	// older clients filter by title only
	if q.Search == "" {
		q.Search = strings.TrimSpace(values.Get("title"))
	}

	var err error
	if q.IsPublished, err = queryBool(values, "isPublished"); err != nil {
		return q, err
	}
	if q.CategoryID, err = queryUint(values, "categoryId"); err != nil {
		return q, err
	}
	if q.TagID, err = queryUint(values, "tagId"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(values, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(values, "offset"); err != nil {
		return q, err
	}
	return q, v.Struct(q)
}

func queryInt(values url.Values, key string) (int, error) {
	s := values.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewInvalidFieldError(key, key+" must be an integer")
	}
	return n, nil
}

func queryUint(values url.Values, key string) (*uint, error) {
	s := values.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return nil, errs.NewInvalidFieldError(key, key+" must be a positive integer")
	}
	id := uint(n)
	return &id, nil
}

func queryBool(values url.Values, key string) (bool, error) {
	s := values.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errs.NewInvalidFieldError(key, key+" must be true or false")
	}
	return b, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(name, "invalid "+name)
	}
	return id, nil
}

func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || n == 0 {
		return 0, errs.NewInvalidFieldError(name, "invalid "+name)
	}
	return uint(n), nil
}
