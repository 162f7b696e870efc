package billing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	connectAuthorizeURL = "https://connect.stripe.com/oauth/authorize"
	stateSeparator      = "___"
)

// OAuthLink builds the Connect authorization URL. accountType is the app
// path Stripe redirects back to ("agency" or "subaccount") and baseURL must
// end in a slash.
func OAuthLink(clientID, baseURL, accountType, state string) string {
	return fmt.Sprintf("%s?response_type=code&client_id=%s&scope=read_write&redirect_uri=%s%s&state=%s",
		connectAuthorizeURL, clientID, baseURL, accountType, state)
}

// OAuthState encodes the page to return to and the entity being connected
func OAuthState(path string, entityID uuid.UUID) string {
	return path + stateSeparator + entityID.String()
}

// ParseOAuthState splits "<path>___<entityId>"
func ParseOAuthState(state string) (path string, entityID uuid.UUID, err error) {
	path, rawID, ok := strings.Cut(state, stateSeparator)
	if !ok || path == "" {
		return "", uuid.Nil, fmt.Errorf("malformed oauth state %q", state)
	}
	entityID, err = uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("malformed oauth state %q: %w", state, err)
	}
	return path, entityID, nil
}
