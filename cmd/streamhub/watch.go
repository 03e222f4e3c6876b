package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/kbukum/streamhub/errors"
	"github.com/kbukum/streamhub/resilience"
	"github.com/kbukum/streamhub/security"
	"github.com/kbukum/streamhub/sse"
	"github.com/kbukum/streamhub/version"
)

func newWatchCmd() *cobra.Command {
	var limit, retries int
	var tlsCfg security.ClientTLS

	cmd := &cobra.Command{
		Use:   "watch <url>",
		Short: "Print the events of a stream",
		Long: `Open an event stream and print each event until the server ends it.

Named events are printed as "name: data", unnamed ones as their data.
With --retry, dropped connections and 5xx responses are retried with
exponential backoff; a stream the server ends cleanly is not reopened.

Examples:
  streamhub watch http://localhost:3000/streams/lobby
  streamhub watch --limit 4 --retry 3 http://localhost:3000/sse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd, args[0], limit, retries, tlsCfg)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after this many events (0 = no limit)")
	cmd.Flags().IntVar(&retries, "retry", 0, "reconnect attempts after a failure")
	cmd.Flags().StringVar(&tlsCfg.CAFile, "ca-file", "", "PEM bundle used to verify an https hub")
	cmd.Flags().BoolVar(&tlsCfg.SkipVerify, "insecure", false, "skip TLS certificate verification")
	return cmd
}

func watch(cmd *cobra.Command, url string, limit, retries int, tlsCfg security.ClientTLS) error {
	client, err := tlsCfg.HTTPClient()
	if err != nil {
		return err
	}
	w := &watcher{
		client: client,
		url:    url,
		limit:  limit,
		out:    cmd.OutOrStdout(),
		name:   color.New(color.FgCyan, color.Bold),
	}

	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = retries + 1
	cfg.OnRetry = func(_ int, err error, backoff time.Duration) {
		fmt.Fprintf(cmd.ErrOrStderr(), "reconnecting in %s: %v\n", backoff.Round(time.Millisecond), err)
	}
	return resilience.Retry(cmd.Context(), cfg, w.run)
}

// watcher prints events across reconnects; printed counts toward limit.
type watcher struct {
	client  *http.Client
	url     string
	limit   int
	printed int
	out     io.Writer
	name    *color.Color
}

func (w *watcher) done() bool {
	return w.limit > 0 && w.printed >= w.limit
}

func (w *watcher) run(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, http.NoBody)
	if err != nil {
		return resilience.Permanent(err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return responseError(resp)
	}

	r := sse.NewReader(resp.Body)
	defer r.Close()

	for !w.done() {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Event != "" {
			fmt.Fprintf(w.out, "%s: %s\n", w.name.Sprint(ev.Event), ev.Data)
		} else {
			fmt.Fprintln(w.out, ev.Data)
		}
		w.printed++
	}
	return nil
}

// responseError turns a failed response into an error, falling back to the
// status line when the body is not an error envelope. 5xx responses and
// envelopes marked retryable are worth reconnecting for; the rest are not.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if appErr, ok := apperrors.FromResponse(resp.StatusCode, body); ok {
		err := fmt.Errorf("%s: %w", resp.Status, appErr)
		if appErr.Retryable || resp.StatusCode >= http.StatusInternalServerError {
			return err
		}
		return resilience.Permanent(err)
	}
	err := fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	if resp.StatusCode >= http.StatusInternalServerError {
		return err
	}
	return resilience.Permanent(err)
}
