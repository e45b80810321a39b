package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"encore.app/idempotency/accesscache/pgstore"
	"encore.app/idempotency/codec"
	"encore.app/idempotency/model"
)

// entryView is the printable form of a stored entry.
type entryView struct {
	Key         string              `json:"key"`
	State       string              `json:"state"`
	InFlightID  string              `json:"inFlightId,omitempty"`
	Method      string              `json:"method,omitempty"`
	Path        string              `json:"path,omitempty"`
	QueryString string              `json:"queryString,omitempty"`
	DataHash    string              `json:"dataHash,omitempty"`
	StatusCode  int                 `json:"statusCode,omitempty"`
	ContentType string              `json:"contentType,omitempty"`
	Headers     map[string][]string `json:"headers,omitempty"`
	BodyKind    model.BodyKind      `json:"bodyKind,omitempty"`
	RouteName   string              `json:"routeName,omitempty"`
	RouteValues map[string]string   `json:"routeValues,omitempty"`
	Body        string              `json:"body,omitempty"`
}

func newEntryView(key string, e model.Entry) entryView {
	if e.IsInFlight() {
		return entryView{Key: key, State: "in_flight", InFlightID: e.RequestInFlightID}
	}
	view := entryView{
		Key:         key,
		State:       "completed",
		Method:      e.RequestMethod,
		Path:        e.RequestPath,
		QueryString: e.RequestQueryString,
		DataHash:    e.RequestDataHash,
		StatusCode:  e.ResponseStatusCode,
		ContentType: e.ResponseContentType,
		Headers:     e.ResponseHeaders,
	}
	if b := e.ResponseBody; b != nil {
		view.BodyKind = b.Kind
		view.RouteName = b.RouteName
		view.RouteValues = b.RouteValues
		if utf8.Valid(b.Value) {
			view.Body = string(b.Value)
		} else {
			view.Body = fmt.Sprintf("<%d bytes of binary data>", len(b.Value))
		}
	}
	return view
}

func newInspectCommand(cfg *cliConfig) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "inspect <key>",
		Short: "Decode and print the entry stored for an idempotency key",
		Example: `  # Show what a retried request would get back
  idemctl inspect 6f1c8a52-0d0e-4c5e-9b0f-3c8f7f2f4a10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := cfg.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			key := cfg.prefix() + args[0]
			data, err := store.Get(cmd.Context(), key)
			if errors.Is(err, pgstore.ErrNotFound) {
				return fmt.Errorf("no entry for key %q", args[0])
			}
			if err != nil {
				return err
			}
			if raw {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			entry, err := codec.JSON{}.Decode(data)
			if err != nil {
				return fmt.Errorf("entry %q cannot be decoded: %w", key, err)
			}
			return writeJSON(cmd.OutOrStdout(), newEntryView(key, entry))
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the stored bytes without decoding")
	return cmd
}

func newListCommand(cfg *cliConfig) *cobra.Command {
	var limit int32
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored idempotency keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			store, closeFn, err := cfg.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			prefix := cfg.prefix()
			keys, err := store.Keys(cmd.Context(), prefix, limit)
			if err != nil {
				return err
			}
			for _, k := range keys {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(k, prefix)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int32Var(&limit, "limit", 100, "maximum number of keys to print")
	return cmd
}

func newRemoveCommand(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove entries so their keys can be used again",
		Long: `Remove deletes the entries of the given idempotency keys. Removing an
in-flight marker lets a new attempt start while the old one may still run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := cfg.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			for _, k := range args {
				if err := store.Remove(cmd.Context(), cfg.prefix()+k); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed: %s\n", k)
			}
			return nil
		},
	}
}

func newPurgeCommand(cfg *cliConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every entry whose expiry has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := cfg.store(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			deleted, err := store.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "purged: %d\n", deleted)
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
