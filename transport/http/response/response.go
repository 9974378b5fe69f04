// Package response writes the JSON envelopes every endpoint answers with:
// {"data": ...} on success, {"message": ...} for acknowledgements and {"error": ..., "reason": ...} on failure.
package response

import (
	"encoding/json"
	"mime"
	"net/http"

	"condo/shared/constant"
	"condo/shared/failure"
	"condo/shared/logger"

	"github.com/rs/zerolog/log"
)

const internalErrorMessage = "internal server error"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error  *string `json:"error,omitempty"`
	Reason string  `json:"reason,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError renders a failure with its status and reason. Errors that are not failures become a
// bare 500 so driver and network details stay in the logs.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	msg := err.Error()

	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(err)

		msg = internalErrorMessage
	}

	write(writer, code, Error{Error: &msg, Reason: failure.GetReason(err)})
}

// Fail records err on the handler span, logs it under action and renders it with WithError.
func Fail(writer http.ResponseWriter, scope interface{ TraceError(error) }, err error, action string) {
	scope.TraceError(err)

	if failure.GetCode(err) < http.StatusInternalServerError {
		log.Warn().Err(err).Msg(action)
	} else {
		log.Error().Err(err).Msg(action)
	}

	WithError(writer, err)
}

// WithFile sends payload as a download named fileName.
func WithFile(writer http.ResponseWriter, contentType, fileName string, payload []byte) {
	writer.Header().Set(constant.RequestHeaderContentType, contentType)

	if fileName != "" {
		writer.Header().Set(constant.RequestHeaderContentDisposition,
			mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}

	writer.WriteHeader(http.StatusOK)

	if _, err := writer.Write(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
