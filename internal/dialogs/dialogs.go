// Package dialogs is the dialog plugin: native message, question and file
// picker dialogs, callable from Go and over the bridge.
package dialogs

import (
	"context"
	"strings"
)

type MessageKind string

const (
	KindInfo    MessageKind = "info"
	KindWarning MessageKind = "warning"
	KindError   MessageKind = "error"
)

type MessageOptions struct {
	Title   string      `json:"title"`
	Message string      `json:"message"`
	Kind    MessageKind `json:"kind,omitempty"`
	OkLabel string      `json:"okLabel,omitempty"`
}

type AskOptions struct {
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	Kind        MessageKind `json:"kind,omitempty"`
	OkLabel     string      `json:"okLabel,omitempty"`
	CancelLabel string      `json:"cancelLabel,omitempty"`
}

// Filter restricts a file picker to a set of extensions.
type Filter struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
}

type OpenOptions struct {
	Directory   bool     `json:"directory,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`
	DefaultPath string   `json:"defaultPath,omitempty"`
}

type SaveOptions struct {
	Filters     []Filter `json:"filters,omitempty"`
	DefaultPath string   `json:"defaultPath,omitempty"`
}

// Dialogs shows modal dialogs and waits for the user. Pickers return an
// empty path when the user cancels. When ctx ends first the dialog is
// dismissed and ctx's error is returned.
type Dialogs interface {
	Message(ctx context.Context, opts MessageOptions) error
	Ask(ctx context.Context, opts AskOptions) (bool, error)
	Confirm(ctx context.Context, opts AskOptions) (bool, error)
	Open(ctx context.Context, opts OpenOptions) (string, error)
	Save(ctx context.Context, opts SaveOptions) (string, error)
}

// extensions flattens filters into ".ext" form. A "*" anywhere means no
// filtering.
func extensions(filters []Filter) []string {
	var exts []string
	seen := map[string]bool{}
	for _, f := range filters {
		for _, e := range f.Extensions {
			e = strings.TrimSpace(e)
			if e == "*" {
				return nil
			}
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			e = strings.ToLower(e)
			if !seen[e] {
				seen[e] = true
				exts = append(exts, e)
			}
		}
	}
	return exts
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}
