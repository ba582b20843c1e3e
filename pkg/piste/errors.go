package piste

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// SubscriptionHint is appended to 403 errors: the usual cause is an
// application not subscribed to the API on the PISTE portal.
const SubscriptionHint = "the PISTE application may not be subscribed to this API or lacks the required permissions; check the subscription on https://piste.gouv.fr/"

// maxErrorBody bounds how much of an error body is kept.
const maxErrorBody = 500

// APIError is a non-2xx response from a PISTE API.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
	Hint       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("PISTE API error (status %d): %s", e.StatusCode, e.Message)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func parseError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}

	for _, path := range []string{"message", "error_description", "error", "detail"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.String() != "" {
			apiErr.Message = r.String()
			break
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		if apiErr.Body != "" && !gjson.ValidBytes(body) {
			apiErr.Message = strings.TrimSpace(apiErr.Body)
		}
	}

	if resp.StatusCode == http.StatusForbidden {
		apiErr.Hint = SubscriptionHint
	}
	return apiErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
