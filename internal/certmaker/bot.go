package certmaker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var ErrBotRunning = errors.New("bot is already running")

const (
	requestFileSuffix  = ".yaml"
	doneFileSuffix     = ".done"
	responseFileSuffix = ".response"
)

// Bot submits subject request files found in a directory, either once or on
// a cron schedule.
type Bot struct {
	submitter   *Submitter
	baseURL     string
	requestDir  string
	responseDir string
	logger      *logrus.Entry
	cron        *cron.Cron
}

func NewBot(submitter *Submitter, baseURL, requestDir, responseDir string, logger *logrus.Entry) *Bot {
	return &Bot{
		submitter:   submitter,
		baseURL:     baseURL,
		requestDir:  requestDir,
		responseDir: responseDir,
		logger:      logger,
	}
}

// RunOnce submits every request file in the request directory. Accepted
// requests get their response body stored in the response directory and
// are renamed with a .done suffix; all others stay in place.
func (b *Bot) RunOnce(ctx context.Context) (int, []error) {
	errs := make([]error, 0)

	fi, err := os.ReadDir(b.requestDir)
	if err != nil {
		return 0, append(errs, fmt.Errorf("could not read files from request directory: %w", err))
	}
	if err = os.MkdirAll(b.responseDir, 0755); err != nil {
		return 0, append(errs, fmt.Errorf("could not create response directory: %w", err))
	}

	b.logger.Tracef("Found %d files total", len(fi))
	var submitted int
	for _, reqFile := range fi {
		if reqFile.IsDir() || !strings.HasSuffix(reqFile.Name(), requestFileSuffix) {
			b.logger.Tracef("Ignoring file '%s'; not a request file", reqFile.Name())
			continue
		}

		fileWithPath := filepath.Join(b.requestDir, reqFile.Name())
		sd, err := GetRequestFromFile(fileWithPath)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		outcome := b.submitter.Submit(ctx, *sd, b.baseURL)
		if !outcome.Succeeded() {
			errs = append(errs, fmt.Errorf("could not submit '%s': %w", reqFile.Name(), outcome.Error()))
			continue
		}

		name := strings.TrimSuffix(reqFile.Name(), requestFileSuffix)
		respFile := filepath.Join(b.responseDir, name+responseFileSuffix)
		if err := os.WriteFile(respFile, []byte(outcome.Body), 0644); err != nil {
			errs = append(errs, fmt.Errorf("could not store response for '%s': %w", reqFile.Name(), err))
			continue
		}
		if err := os.Rename(fileWithPath, fileWithPath+doneFileSuffix); err != nil {
			errs = append(errs, fmt.Errorf("could not mark '%s' as done: %w", reqFile.Name(), err))
			continue
		}

		submitted++
		b.logger.Debugf("Request '%s' submitted", reqFile.Name())
	}

	return submitted, errs
}

// Start runs RunOnce according to the cron spec until Stop is called.
// A running bot has to be stopped before it can be started again.
func (b *Bot) Start(spec string) error {
	if b.cron != nil {
		return ErrBotRunning
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		submitted, errs := b.RunOnce(context.Background())
		for _, err := range errs {
			b.logger.WithField("error", err.Error()).Warn("request not submitted")
		}

		switch submitted {
		case 0:
			b.logger.Info("No request submitted")
		case 1:
			b.logger.Info("Submitted 1 request")
		default:
			b.logger.Infof("Submitted %d requests", submitted)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", spec, err)
	}

	b.cron = c
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (b *Bot) Stop() {
	if b.cron == nil {
		return
	}
	<-b.cron.Stop().Done()
	b.cron = nil
}
