package admin

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pulsar-ops/topicpurge/auth"
)

// Outcome of a topic deletion, classified from its final status code.
type Outcome int

const (
	// Deleted topics returned 204 No Content.
	Deleted Outcome = iota
	// Unauthorized topics returned 401.
	Unauthorized
	// Forbidden topics returned 403.
	Forbidden
	// NotFound topics returned 404 under every attempted Form.
	NotFound
	// Unexpected topics returned any other status.
	Unexpected
)

// Classify a final status code into an Outcome.
func Classify(status int) Outcome {
	switch status {
	case http.StatusNoContent:
		return Deleted
	case http.StatusUnauthorized:
		return Unauthorized
	case http.StatusForbidden:
		return Forbidden
	case http.StatusNotFound:
		return NotFound
	default:
		return Unexpected
	}
}

func (o Outcome) String() string {
	switch o {
	case Deleted:
		return "deleted"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not-found"
	default:
		return "unexpected"
	}
}

// Guidance returns the operator-facing message for Outcome |o| of |topic|.
// Messages for authorization failures differ by the auth.Mode of |creds|,
// and literal JWT tokens additionally describe their expiry as of |now|.
func Guidance(o Outcome, topic TopicName, creds *auth.Credentials, now time.Time) string {
	var oauth = creds != nil && creds.Mode == auth.ModeOAuth

	switch o {
	case Deleted:
		return fmt.Sprintf("Successfully deleted %s/%s", topic.Namespace, topic.Topic)

	case Unauthorized:
		var b strings.Builder
		b.WriteString("Unauthorized\n")
		if oauth {
			b.WriteString("  - Are your OAuth credentials correct?\n")
			b.WriteString("  - Does your service account have admin permissions?\n")
			b.WriteString("  - Check your client_id, client_secret, and audience configuration.")
			return b.String()
		}
		b.WriteString("  - Does your token have admin scope?\n")
		b.WriteString("  - Has your token expired?")

		if creds != nil && creds.Token != nil {
			if claims, ok := auth.Inspect(creds.Token.AccessToken); ok {
				if desc := claims.DescribeExpiry(now); desc != "" {
					b.WriteString("\n  - The token " + desc + ".")
				}
			}
		}
		return b.String()

	case Forbidden:
		if oauth {
			return "Forbidden: Does your service account have admin permissions?"
		}
		return "Forbidden: Does your token have admin permissions?"

	case NotFound:
		return "Not found: Topic was not found."

	default:
		return "Unexpected status code - please ask for help so we can document this error"
	}
}
