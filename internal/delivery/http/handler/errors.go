package handler

import (
	"errors"
	"io"
	"net/http"

	"cabinet-portal/internal/access"
	"cabinet-portal/internal/usecase"
	"cabinet-portal/pkg/requestid"
	"cabinet-portal/pkg/response"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// writeError answers with the status matching the kind of err. Nothing is written for a client
// that already went away.
func writeError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	switch usecase.Classify(err) {
	case usecase.KindValidation:
		response.BadRequest(w, err.Error())
	case usecase.KindConflict, usecase.KindState:
		response.Conflict(w, err.Error())
	case usecase.KindAuth:
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.Redirect(w, http.StatusUnauthorized, err.Error(), access.LoginRoute)
	case usecase.KindForbidden:
		response.Forbidden(w, err.Error())
	case usecase.KindNotFound:
		response.NotFound(w, err.Error())
	case usecase.KindConfirmation:
		response.PreconditionRequired(w, "Deletion must be confirmed with ?confirm=true")
	case usecase.KindNetwork:
		response.BadGateway(w, "Backend unavailable, please retry")
	case usecase.KindTimeout:
		response.GatewayTimeout(w, "Backend did not answer in time, please retry")
	case usecase.KindAbandoned:
		log.WithField("request_id", requestid.From(r.Context())).Info("Request abandoned, response dropped")
	default:
		log.WithField("request_id", requestid.From(r.Context())).Errorf("Unhandled error: %+v", err)
		response.InternalServerError(w, "")
	}
}

// decodeBody reads a JSON body. An empty body leaves v untouched when optional is set.
func decodeBody(r *http.Request, v interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
