package ux

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// RenderError writes an error for human consumption: the message first,
// then any recovery suggestions and documentation link the error carries.
func RenderError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var re *errors.ReadyError
	if !stderrors.As(err, &re) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Error [%s]: %s\n", re.Code, re.Message)
	if re.Cause != nil {
		fmt.Fprintf(w, "  caused by: %v\n", re.Cause)
	}
	if len(re.Suggestions) > 0 {
		fmt.Fprintln(w)
		for _, s := range re.Suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	if re.DocsURL != "" {
		fmt.Fprintf(w, "\n  See %s\n", re.DocsURL)
	}
}

// RenderErrorString returns the rendered error as a string.
func RenderErrorString(err error) string {
	var b strings.Builder
	RenderError(&b, err)
	return b.String()
}
