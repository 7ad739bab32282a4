// Package notify shows user-facing error notices.
package notify

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// Notifier reports a problem to the user. Error blocks until the user has
// acknowledged the notice.
type Notifier interface {
	Error(title, message string)
}

// Dialog shows a native modal error dialog.
type Dialog struct{}

func (Dialog) Error(title, message string) {
	log.Error().Str("title", title).Msg(message)
	err := zenity.Error(message, zenity.Title(title), zenity.ErrorIcon)
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Warn().Err(err).Msg("failed to show error dialog")
	}
}

// Log only writes the notice to the log. It is used for headless runs.
type Log struct{}

func (Log) Error(title, message string) {
	log.Error().Str("title", title).Msg(message)
}
