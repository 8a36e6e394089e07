package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/icdtree/internal/catalog"
	"github.com/salmonumbrella/icdtree/internal/output"
	"github.com/salmonumbrella/icdtree/internal/secrets"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), "Error:", err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"type":     "error",
		"category": "system",
	}

	var usageErr usageError
	var httpErr catalog.HTTPError
	switch {
	case errors.As(err, &usageErr):
		errMap["type"] = "validation"
		errMap["category"] = "user"
	case errors.As(err, &httpErr):
		errMap["type"] = "source_http"
		errMap["status"] = httpErr.StatusCode
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 {
			errMap["category"] = "user"
		}
	case errors.Is(err, context.DeadlineExceeded):
		errMap["type"] = "timeout"
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, secrets.ErrNotFound):
		errMap["type"] = "not_found"
		errMap["category"] = "user"
	case errors.Is(err, fs.ErrNotExist):
		errMap["type"] = "input"
		errMap["category"] = "user"
	}

	return map[string]interface{}{"error": errMap}
}
