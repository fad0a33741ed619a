// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
)

// LogNotifier writes confirmation codes to the request logger.
// Mail delivery is handled outside this service.
type LogNotifier struct {
	From string
}

// NewLogNotifier returns a notifier stamping messages with the sender address.
func NewLogNotifier(from string) *LogNotifier {
	return &LogNotifier{From: from}
}

// SendConfirmationCode implements [Notifier].
func (notifier *LogNotifier) SendConfirmationCode(context context.Context, user *User, code string) error {
	ctxutil.GetLogger(context).InfoContext(context, "confirmation_code_issued",
		slog.String("from", notifier.From),
		slog.String("to", user.Email),
		slog.String("username", user.Username),
		slog.String("confirmation_code", code),
	)
	return nil
}
