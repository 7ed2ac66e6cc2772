// Package session carries the authenticated user through the wallet flow.
//
// The web client read this from an ambient auth context; here it is an
// explicit value handed to each component so the flow stays testable in
// isolation.
package session

// Session identifies the current user for the duration of a page visit.
// The token is attached as a bearer credential to every wallet API call;
// issuing and refreshing it belongs to the auth subsystem, not to this
// module.
type Session struct {
	UserID string
	Phone  string
	Token  string
}
