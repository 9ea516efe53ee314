package ingestion

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// StatsPayload carries the interaction counters of a content. Pointers tell
// a missing counter apart from a zero one.
type StatsPayload struct {
	Likes    *int64 `json:"likes" validate:"required,gte=0"`
	Comments *int64 `json:"comments" validate:"required,gte=0"`
	Views    *int64 `json:"views" validate:"required,gte=0"`
	Shares   *int64 `json:"shares" validate:"required,gte=0"`
}

// AuthorPayload is the author block of a content payload.
//
//	unique_name        : Author -> Username
//	full_name          : Author -> Name
//	unique_external_id : Author -> UniqueID
//	followers          : Author -> Followers, optional
type AuthorPayload struct {
	UniqueName       string          `json:"unique_name" validate:"required"`
	FullName         string          `json:"full_name" validate:"required"`
	UniqueExternalID string          `json:"unique_external_id" validate:"required"`
	Url              string          `json:"url" validate:"required"`
	Title            string          `json:"title" validate:"required"`
	Followers        *int64          `json:"followers,omitempty" validate:"omitempty,gte=0"`
	BigMetadata      json.RawMessage `json:"big_metadata"`
	SecretValue      json.RawMessage `json:"secret_value"`
}

// ContentPayload is one item of the content feed, and of the POST
// /api/contents/ body.
type ContentPayload struct {
	UnqExternalID    string          `json:"unq_external_id" validate:"required"`
	Stats            *StatsPayload   `json:"stats" validate:"required"`
	Author           *AuthorPayload  `json:"author" validate:"required"`
	BigMetadata      json.RawMessage `json:"big_metadata"`
	SecretValue      json.RawMessage `json:"secret_value"`
	ThumbnailViewUrl string          `json:"thumbnail_view_url" validate:"required"`
	Title            string          `json:"title" validate:"required"`
	Hashtags         []string        `json:"hashtags" validate:"required,dive,required"`
	Timestamp        string          `json:"timestamp" validate:"required"`
}

// PublishedAt parses Timestamp, any common layout is accepted. A timestamp
// without zone is read as UTC.
func (p *ContentPayload) PublishedAt() (time.Time, error) {
	t, err := dateparse.ParseIn(p.Timestamp, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// VideoPublisherPayload is one item of the POST /api/video-publisher/ body.
type VideoPublisherPayload struct {
	UserName  string `json:"user_name" validate:"required,max=256"`
	Following int64  `json:"following" validate:"gte=0"`
	Followers int64  `json:"followers" validate:"gte=0"`
	Likes     int64  `json:"likes" validate:"gte=0"`
}

// VideoDataPayload is one item of the POST /api/video-data/ body.
// VideoPublisher is the publisher user name.
type VideoDataPayload struct {
	VideoUrl       string `json:"video_url" validate:"required,url"`
	VideoCaption   string `json:"video_caption"`
	VideoPublisher string `json:"video_publisher,omitempty" validate:"omitempty,max=256"`
	Query          string `json:"query,omitempty"`
}

// FieldError points at one invalid field of one item of a batch.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a whole batch. It lists every invalid field that
// was found.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("item %d: %s: %s", fe.Index, fe.Field, fe.Message))
	}
	return "invalid payload: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names, the client never sees go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeContentPayloads parses a JSON list of content payloads. Malformed
// JSON is reported as a ValidationError on the whole body.
func DecodeContentPayloads(body []byte) ([]ContentPayload, error) {
	return decodeList[ContentPayload](body)
}

// DecodeVideoPublisherPayloads parses a JSON list of video publishers.
func DecodeVideoPublisherPayloads(body []byte) ([]VideoPublisherPayload, error) {
	return decodeList[VideoPublisherPayload](body)
}

// DecodeVideoDataPayloads parses a JSON list of videos.
func DecodeVideoDataPayloads(body []byte) ([]VideoDataPayload, error) {
	return decodeList[VideoDataPayload](body)
}

// decodeList parses body as a JSON list and each element on its own, so a
// type error is reported against the item that carries it. Index -1 means
// the body is not a list.
func decodeList[T any](body []byte) ([]T, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, &ValidationError{Errors: []FieldError{{Index: -1, Message: err.Error()}}}
	}

	items := make([]T, len(raws))
	var errs []FieldError
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			field := ""
			if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
				field = typeErr.Field
			}
			errs = append(errs, FieldError{Index: i, Field: field, Message: err.Error()})
		}
	}
	if err := asValidationError(errs); err != nil {
		return nil, err
	}
	return items, nil
}

// ValidateContentPayloads checks every item of the batch and returns a
// ValidationError listing all offending fields, or nil.
func ValidateContentPayloads(payloads []ContentPayload) error {
	var errs []FieldError
	for i := range payloads {
		errs = append(errs, structErrors(i, &payloads[i])...)
		if payloads[i].Timestamp == "" {
			continue
		}
		if _, err := payloads[i].PublishedAt(); err != nil {
			errs = append(errs, FieldError{Index: i, Field: "timestamp", Message: "invalid datetime"})
		}
	}
	return asValidationError(errs)
}

// ValidateVideoPublisherPayloads checks every publisher of the batch.
func ValidateVideoPublisherPayloads(payloads []VideoPublisherPayload) error {
	var errs []FieldError
	for i := range payloads {
		errs = append(errs, structErrors(i, &payloads[i])...)
	}
	return asValidationError(errs)
}

// ValidateVideoDataPayloads checks every video of the batch.
func ValidateVideoDataPayloads(payloads []VideoDataPayload) error {
	var errs []FieldError
	for i := range payloads {
		errs = append(errs, structErrors(i, &payloads[i])...)
	}
	return asValidationError(errs)
}

func asValidationError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

func structErrors(index int, item interface{}) []FieldError {
	err := validate.Struct(item)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Index: index, Message: err.Error()}}
	}

	res := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		res = append(res, FieldError{
			Index:   index,
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return res
}

// fieldPath drops the root struct name, "ContentPayload.stats.likes" becomes
// "stats.likes".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gte":
		return "ensure this value is greater than or equal to " + fe.Param()
	case "max":
		return "ensure this field has no more than " + fe.Param() + " characters"
	case "url":
		return "enter a valid URL"
	default:
		return "failed on the " + fe.Tag() + " rule"
	}
}

// jsonOrNil converts a raw JSON value to a column value, JSON null and
// missing values are stored as NULL.
func jsonOrNil(raw json.RawMessage) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return datatypes.JSON(trimmed)
}
