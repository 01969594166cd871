package console

import "context"

// Dialogs are the modal interactions the console needs from its front end.
// Only one dialog is open at a time.
type Dialogs interface {
	Alert(ctx context.Context, message string)
	// Prompt returns ok=false when the user cancels.
	Prompt(ctx context.Context, message, defaultValue string) (value string, ok bool)
	Confirm(ctx context.Context, message string) bool
}
