package models

// JoinedGroupsSignedOut is the JoinedGroupCount sentinel for a signed-out
// session.
const JoinedGroupsSignedOut = -1

// SessionState is the three-valued summary driving top-level navigation.
type SessionState struct {
	SignedIn         bool `json:"signed_in"`
	Connected        bool `json:"connected"`
	JoinedGroupCount int  `json:"joined_group_count"`
}

// SignedOutSession returns the default state after sign-out.
func SignedOutSession() SessionState {
	return SessionState{SignedIn: false, Connected: true, JoinedGroupCount: JoinedGroupsSignedOut}
}
