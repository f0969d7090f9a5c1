package logger

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error and the domain's typed errors implement it.
type messager interface {
	Message() string
}

type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain into one entry per level.
// Errors without Message stop the walk and contribute their full text.
// Joined errors contribute the entries of each member in order.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, collectErrorEntries(e)...)
			}
			return entries
		}

		m, ok := err.(messager)
		if !ok {
			return append(entries, ErrorEntry{Message: err.Error()})
		}

		var meta map[string]any
		if md, ok := err.(metadataer); ok {
			meta = md.Metadata()
		}

		// zerr.With on a plain error leaves an empty message; fold its metadata into the cause.
		if m.Message() == "" {
			next := errors.Unwrap(err)
			if next == nil {
				return entries
			}
			sub := collectErrorEntries(next)
			if len(sub) > 0 && len(meta) > 0 {
				merged := make(map[string]any, len(sub[0].Metadata)+len(meta))
				for k, v := range sub[0].Metadata {
					merged[k] = v
				}
				for k, v := range meta {
					merged[k] = v
				}
				sub[0].Metadata = merged
			}
			return append(entries, sub...)
		}

		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		err = errors.Unwrap(err)
	}
	return entries
}

// formatErrorEntries renders entries as "Error: ..." followed by a "Caused by:" list.
// Metadata keys are printed sorted, one per line, under their message.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		if i == 0 {
			head = "Error: "
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head = "    → "
			indent = "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
