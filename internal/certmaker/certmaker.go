package certmaker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/metrics"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/validation"

	"github.com/sirupsen/logrus"
)

// Doer sends a single HTTP request. *restclient.RestClient and *http.Client
// both satisfy it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type Result int

const (
	ResultSuccess Result = iota
	ResultValidationFailed
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultValidationFailed:
		return "validation_failed"
	case ResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single submission attempt. Body is set on
// success, Errors on validation failure. StatusCode is set when the service
// answered with something other than 201; Err holds the transport error
// otherwise.
type Outcome struct {
	Result     Result
	Body       string
	Errors     entity.ValidationResult
	StatusCode int
	Err        error
}

func (o Outcome) Succeeded() bool {
	return o.Result == ResultSuccess
}

// Error returns the outcome as an error, or nil on success.
func (o Outcome) Error() error {
	switch o.Result {
	case ResultSuccess:
		return nil
	case ResultValidationFailed:
		return &ValidationError{Fields: o.Errors}
	}
	if o.StatusCode != 0 {
		return &ServiceError{StatusCode: o.StatusCode}
	}
	return &TransportError{Err: o.Err}
}

type Submitter struct {
	client  Doer
	logger  *logrus.Entry
	metrics *metrics.Collector
}

// NewSubmitter returns a Submitter sending requests through client.
// collector may be nil.
func NewSubmitter(client Doer, logger *logrus.Entry, collector *metrics.Collector) *Submitter {
	return &Submitter{
		client:  client,
		logger:  logger,
		metrics: collector,
	}
}

// Submit validates data and, if valid, posts it to the endpoint for its
// certificate type below baseURL. There is exactly one attempt; data is
// never modified.
func (s *Submitter) Submit(ctx context.Context, data entity.SubjectData, baseURL string) Outcome {
	outcome := s.submit(ctx, data, baseURL)
	s.metrics.ObserveSubmission(string(data.CertificateType), outcome.Result.String())
	return outcome
}

func (s *Submitter) submit(ctx context.Context, data entity.SubjectData, baseURL string) Outcome {
	if errs := validation.Validate(data); !errs.Valid() {
		s.metrics.ObserveValidationFailure(errs.Fields()...)
		s.logger.WithField("fields", errs.Fields()).Debug("subject data rejected")
		return Outcome{Result: ResultValidationFailed, Errors: errs}
	}

	url := ResolveEndpoint(baseURL, data.CertificateType)
	logger := s.logger.WithField("url", url)

	jsonCont, err := json.Marshal(data.Request())
	if err != nil {
		logger.WithField("error", err.Error()).Error("could not serialize submission request")
		return Outcome{Result: ResultFailure, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonCont))
	if err != nil {
		logger.WithField("error", err.Error()).Error("could not build submission request")
		return Outcome{Result: ResultFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// subject contains personal data, debug level only
	logger.WithField("subject", data.String()).Debug("submitting subject data")
	resp, err := s.client.Do(req)
	if err != nil {
		logger.WithField("error", err.Error()).Error("could not reach issuance service")
		return Outcome{Result: ResultFailure, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		logger.WithField("status", resp.StatusCode).Error("issuance service rejected submission")
		return Outcome{Result: ResultFailure, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithField("error", err.Error()).Error("could not read response body")
		return Outcome{Result: ResultFailure, Err: err}
	}

	logger.Info("subject data submitted")
	return Outcome{Result: ResultSuccess, Body: string(body)}
}
