package overview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// SourceError records why a single source URL could not be used
type SourceError struct {
	URL string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("Warning: access to URL %s failed, trying another. Error: %v", e.URL, e.Err)
}

// Unwrap exposes both the classification and the underlying cause
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}

// FetchFirst calls fetch for each url in order and returns the first success.
// Later URLs are never tried once one succeeds, and results are not compared.
// When every URL fails, the returned error wraps ErrAllSourcesFailed and lists
// one warning line per attempt.
func FetchFirst[T any](ctx context.Context, log *slog.Logger, urls []string, fetch func(context.Context, string) (T, error)) (T, error) {
	var zero T
	if log == nil {
		log = slog.Default()
	}
	if len(urls) == 0 {
		return zero, fmt.Errorf("%w: %w", ErrAllSourcesFailed, ErrNoSources)
	}

	var errs *multierror.Error
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fetch(ctx, url)
		if err == nil {
			log.DebugContext(ctx, "Source responded", slog.String("url", url))
			return result, nil
		}

		srcErr := &SourceError{URL: url, Err: err}
		log.WarnContext(ctx, "Source failed, trying another",
			slog.String("url", url),
			slog.Any("error", err),
		)
		errs = multierror.Append(errs, srcErr)
	}

	errs.ErrorFormat = formatSourceErrors
	return zero, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errs)
}

// formatSourceErrors renders a leading sentence followed by one warning per line
func formatSourceErrors(errs []error) string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("all %d network node URLs failed to respond", len(errs)))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}
