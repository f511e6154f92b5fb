package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/certmaker"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/validation"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const apiPrefix = "/api/v1"

// Gateway exposes validation and submission as a JSON API for form
// frontends. It keeps no subject state between requests.
type Gateway struct {
	submitter *certmaker.Submitter
	baseURL   string
	gatherer  prometheus.Gatherer
	logger    *logrus.Entry
}

func New(submitter *certmaker.Submitter, baseURL string, gatherer prometheus.Gatherer, logger *logrus.Entry) *Gateway {
	return &Gateway{
		submitter: submitter,
		baseURL:   baseURL,
		gatherer:  gatherer,
		logger:    logger,
	}
}

func (g *Gateway) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/subject", g.subjectHandler).Methods(http.MethodGet)
	api.HandleFunc("/subject/validate", g.validateHandler).Methods(http.MethodPost)
	api.HandleFunc("/subject/submit", g.submitHandler).Methods(http.MethodPost)

	if g.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(g.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return r
}

type validateResponse struct {
	Valid  bool                    `json:"valid"`
	Errors entity.ValidationResult `json:"errors"`
}

type submitResponse struct {
	Result     string                  `json:"result"`
	Body       string                  `json:"body,omitempty"`
	Errors     entity.ValidationResult `json:"errors,omitempty"`
	StatusCode int                     `json:"statusCode,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// subjectHandler returns the initial form state.
func (g *Gateway) subjectHandler(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, http.StatusOK, entity.NewSubjectData())
}

func (g *Gateway) validateHandler(w http.ResponseWriter, r *http.Request) {
	sd, ok := g.decodeSubject(w, r)
	if !ok {
		return
	}

	errs := validation.Validate(sd)
	status := http.StatusOK
	if !errs.Valid() {
		status = http.StatusUnprocessableEntity
	}
	g.writeJSON(w, status, validateResponse{Valid: errs.Valid(), Errors: errs})
}

func (g *Gateway) submitHandler(w http.ResponseWriter, r *http.Request) {
	sd, ok := g.decodeSubject(w, r)
	if !ok {
		return
	}

	// a started submission runs to completion even if the client goes away
	outcome := g.submitter.Submit(context.WithoutCancel(r.Context()), sd, g.baseURL)
	resp := submitResponse{Result: outcome.Result.String()}

	var status int
	switch outcome.Result {
	case certmaker.ResultSuccess:
		status = http.StatusCreated
		resp.Body = outcome.Body
	case certmaker.ResultValidationFailed:
		status = http.StatusUnprocessableEntity
		resp.Errors = outcome.Errors
	default:
		status = http.StatusBadGateway
		resp.StatusCode = outcome.StatusCode
		resp.Error = outcome.Error().Error()
	}

	g.writeJSON(w, status, resp)
}

func (g *Gateway) decodeSubject(w http.ResponseWriter, r *http.Request) (entity.SubjectData, bool) {
	var sd entity.SubjectData
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sd); err != nil {
		g.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed subject data: " + err.Error()})
		return sd, false
	}

	t, err := entity.ParseCertificateType(string(sd.CertificateType))
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return sd, false
	}
	sd.CertificateType = t

	return sd, true
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.WithField("error", err.Error()).Warn("could not write response")
	}
}
