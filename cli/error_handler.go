package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/tui/theme"
)

// ErrorHandler prints user-facing messages for coded errors.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{Verbose: verbose, Out: os.Stderr}
}

// Handle prints err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	t := theme.DefaultTheme
	icon := theme.DefaultIcons.Get("error")
	te, _ := errors.As(err)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "%s No tabdeck.yml found. Pass --config or create one in this directory.\n", t.Error.Render(icon))

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(out, "%s %s\n", t.Error.Render(icon), te.Message)
		fmt.Fprintln(out, t.Muted.Render("Run 'tabdeck config schema' to see the accepted keys."))
		if te.Cause != nil {
			fmt.Fprintf(out, "%s\n", te.Cause)
		}

	case errors.ErrCodeNotFound:
		fmt.Fprintf(out, "%s No %s with id '%v'\n", t.Error.Render(icon), te.Details["kind"], te.Details["id"])

	case errors.ErrCodeInvalidInput, errors.ErrCodeTooLarge, errors.ErrCodeRejected, errors.ErrCodeUnauthorized:
		fmt.Fprintf(out, "%s %s\n", t.Error.Render(icon), te.Message)

	case errors.ErrCodeUpstream, errors.ErrCodeTimeout:
		fmt.Fprintf(out, "%s %s\n", t.Error.Render(icon), te.Message)
		fmt.Fprintln(out, t.Muted.Render("Check api.base_url and api.timeout_ms in tabdeck.yml."))

	default:
		fmt.Fprintf(out, "%s Error: %v\n", t.Error.Render(icon), err)
	}

	if h.Verbose && te != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", te.ToJSON())
	}
	return err
}
