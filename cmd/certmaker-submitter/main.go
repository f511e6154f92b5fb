package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

var (
	Version     = "0.0.0"
	VersionDate = "0000-00-00 00:00:00"

	cli struct {
		Globals

		Validate ValidateCmd `cmd:"" help:"Validate subject data without submitting it"`
		Submit   SubmitCmd   `cmd:"" help:"Validate and submit subject data to the issuance service"`
		Bot      BotCmd      `cmd:"" help:"Submit request files from a directory on a schedule"`
		Serve    ServeCmd    `cmd:"" help:"Serve the JSON API for form frontends"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("certmaker-submitter"),
		kong.Description("Validates certificate subject data and submits it to a CertMaker issuance service."),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s)", Version, VersionDate),
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&cli.Globals)
	cmd.FatalIfErrorf(err)
}
