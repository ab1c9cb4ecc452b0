// Package emailsvc sends the app's emails, through sendgrid or to the console.
package emailsvc

import (
	"io"

	"github.com/pkg/errors"

	"github.com/neptune-academy/reportcards/core"
	appfs "github.com/neptune-academy/reportcards/fs"
)

// New parses the embedded email templates and returns the console service in debug mode or without a
// sendgrid API key, the sendgrid service otherwise.
func New(conf *core.Config, logger core.Logger, console io.Writer) (core.EmailService, error) {
	tmpls, err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf)
	if err != nil {
		return nil, errors.Wrap(err, "parsing email templates")
	}
	if conf.Debug || conf.SendgridApiKey == "" {
		return NewConsoleService(conf, tmpls, console), nil
	}
	return NewSendgridService(conf, tmpls, logger), nil
}
