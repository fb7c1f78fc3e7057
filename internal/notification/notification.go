// Package notification sends desktop notifications through beeep.
package notification

import (
	"github.com/gen2brain/beeep"

	"github.com/zhubert/parley/internal/logger"
)

// AppName is the title of every notification
const AppName = "Parley"

// notifier is swapped out in tests so no real notification is sent
var notifier = beeep.Notify

// SetNotifier replaces the function that delivers notifications
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep as the delivery function
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("notification failed", "error", err)
	}
	return err
}

// ReplyReceived announces that chatName has a new assistant reply
func ReplyReceived(chatName string) error {
	if chatName == "" {
		chatName = "Your chat"
	}
	return Send(AppName, chatName+" replied")
}
