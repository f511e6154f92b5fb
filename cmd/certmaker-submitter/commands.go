package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/KaiserWerk/CertMaker-Submitter/internal/certmaker"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/configuration"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/entity"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/gateway"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/logging"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/metrics"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/restclient"
	"github.com/KaiserWerk/CertMaker-Submitter/internal/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var errInvalidSubject = errors.New("subject data is invalid")

type Globals struct {
	Config  string `help:"The configuration file to use" default:"config.yaml" type:"path"`
	LogFile string `help:"The log file to write to" default:"certmaker-submitter.log" type:"path"`
	Debug   bool   `help:"Enable debug logging"`
}

type environment struct {
	logger  *logrus.Entry
	cfg     *configuration.AppConfig
	cleanup func() error
}

func (g *Globals) setup(name string) (*environment, error) {
	logger, cleanup, err := logging.New(g.LogFile, name, g.Debug)
	if err != nil {
		return nil, fmt.Errorf("could not set up logger: %w", err)
	}

	cfg, created, err := configuration.Setup(g.Config)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("could not set up configuration: %w", err)
	}
	if created {
		logger.Info("configuration file was created")
	}

	return &environment{logger: logger, cfg: cfg, cleanup: cleanup}, nil
}

func (env *environment) close() {
	if err := env.cleanup(); err != nil {
		fmt.Fprintln(os.Stderr, "could not execute cleanup func:", err.Error())
	}
}

func (env *environment) submitter(collector *metrics.Collector) (*certmaker.Submitter, error) {
	svc := env.cfg.Service
	rc, err := restclient.New(svc.BaseURL, svc.ApiKey, svc.SkipVerify, svc.Timeout)
	if err != nil {
		return nil, fmt.Errorf("could not set up rest client: %w", err)
	}
	return certmaker.NewSubmitter(rc, env.logger, collector), nil
}

// SubjectFlags collects subject data either from a request file or from
// individual flags. Flags override values read from the file.
type SubjectFlags struct {
	File               string `help:"YAML request file with subject data" type:"existingfile"`
	CommonName         string `name:"cn" help:"Common Name (CN)"`
	Organization       string `name:"org" help:"Organization (O)"`
	OrganizationalUnit string `name:"ou" help:"Organizational Unit (OU)"`
	Country            string `help:"Country (C)"`
	State              string `help:"State or Province (ST)"`
	Locality           string `help:"Locality (L)"`
	Email              string `help:"Email address"`
	Type               string `help:"Certificate type: signed, self-signed, CA or unsigned"`
}

func (f *SubjectFlags) subject() (entity.SubjectData, error) {
	sd := entity.NewSubjectData()
	if f.File != "" {
		fromFile, err := certmaker.GetRequestFromFile(f.File)
		if err != nil {
			return sd, err
		}
		sd = *fromFile
	}

	for field, value := range map[string]string{
		entity.FieldCommonName:         f.CommonName,
		entity.FieldOrganization:       f.Organization,
		entity.FieldOrganizationalUnit: f.OrganizationalUnit,
		entity.FieldCountry:            f.Country,
		entity.FieldState:              f.State,
		entity.FieldLocality:           f.Locality,
		entity.FieldEmailAddress:       f.Email,
		entity.FieldCertificateType:    f.Type,
	} {
		if value == "" {
			continue
		}
		if err := sd.Set(field, value); err != nil {
			return sd, err
		}
	}

	return sd, nil
}

func printValidationResult(w io.Writer, vr entity.ValidationResult) {
	for _, field := range vr.Fields() {
		fmt.Fprintf(w, "%s: %s\n", field, vr[field])
	}
}

type ValidateCmd struct {
	Subject SubjectFlags `embed:""`
}

func (cmd *ValidateCmd) Run() error {
	sd, err := cmd.Subject.subject()
	if err != nil {
		return err
	}

	vr := validation.Validate(sd)
	if !vr.Valid() {
		printValidationResult(os.Stderr, vr)
		return errInvalidSubject
	}

	fmt.Println("subject data is valid")
	return nil
}

type SubmitCmd struct {
	Subject SubjectFlags `embed:""`
	BaseURL string       `name:"base-url" help:"Issuance service base URL; overrides the configuration"`
}

func (cmd *SubmitCmd) Run(ctx context.Context, g *Globals) error {
	env, err := g.setup("submit")
	if err != nil {
		return err
	}
	defer env.close()

	sd, err := cmd.Subject.subject()
	if err != nil {
		return err
	}

	baseURL := env.cfg.Service.BaseURL
	if cmd.BaseURL != "" {
		baseURL = cmd.BaseURL
	}

	submitter, err := env.submitter(nil)
	if err != nil {
		return err
	}

	outcome := submitter.Submit(ctx, sd, baseURL)
	switch outcome.Result {
	case certmaker.ResultSuccess:
		fmt.Println(outcome.Body)
		return nil
	case certmaker.ResultValidationFailed:
		printValidationResult(os.Stderr, outcome.Errors)
	}

	return outcome.Error()
}

type BotCmd struct {
	Once bool `help:"Process the request directory once and exit"`
}

func (cmd *BotCmd) Run(ctx context.Context, g *Globals) error {
	env, err := g.setup("bot")
	if err != nil {
		return err
	}
	defer env.close()

	submitter, err := env.submitter(nil)
	if err != nil {
		return err
	}

	app := env.cfg.App
	if err := os.MkdirAll(app.RequestDir, 0755); err != nil {
		return fmt.Errorf("could not create request directory: %w", err)
	}

	bot := certmaker.NewBot(submitter, env.cfg.Service.BaseURL, app.RequestDir, app.ResponseDir, env.logger)

	if cmd.Once {
		submitted, errs := bot.RunOnce(ctx)
		for _, err := range errs {
			env.logger.WithField("error", err.Error()).Warn("request not submitted")
		}
		env.logger.Infof("Submitted %d request(s)", submitted)
		if len(errs) > 0 {
			return fmt.Errorf("%d request(s) not submitted", len(errs))
		}
		return nil
	}

	if err := bot.Start(app.Schedule); err != nil {
		return err
	}
	env.logger.WithField("schedule", app.Schedule).Info("Starting up...")

	<-ctx.Done()
	env.logger.Info("Shutting down...")
	bot.Stop()

	return nil
}

type ServeCmd struct {
	Listen string `help:"Listen address; overrides the configuration"`
}

func (cmd *ServeCmd) Run(ctx context.Context, g *Globals) error {
	env, err := g.setup("serve")
	if err != nil {
		return err
	}
	defer env.close()

	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	if err != nil {
		return err
	}

	submitter, err := env.submitter(collector)
	if err != nil {
		return err
	}

	listen := env.cfg.Server.Listen
	if cmd.Listen != "" {
		listen = cmd.Listen
	}

	gw := gateway.New(submitter, env.cfg.Service.BaseURL, reg, env.logger)
	srv := &http.Server{
		Addr:              listen,
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		env.logger.WithField("listen", listen).Info("Starting up...")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	env.logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
