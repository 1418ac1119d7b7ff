package linkbuilder

import (
	"net/url"
	"strings"
)

// Builder formats confirmation and invitation URLs. Pure function over a
// configured base URL, no state.
type Builder struct {
	baseURL string
}

func New(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// InvitationLink returns the acceptance URL for an invitation token.
func (b *Builder) InvitationLink(token string) string {
	return b.baseURL + "/invitations/accept?token=" + url.QueryEscape(token)
}

// ConfirmationLink returns the account confirmation URL for a token.
func (b *Builder) ConfirmationLink(token string) string {
	return b.baseURL + "/confirm?token=" + url.QueryEscape(token)
}
