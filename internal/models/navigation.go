package models

// ScreenKind is the top-level surface a navigation request is about.
type ScreenKind string

const (
	ScreenKindChat ScreenKind = "chat"
	ScreenKindGame ScreenKind = "game"
)

// ScreenType identifies exactly one concrete client screen.
type ScreenType string

const (
	ScreenChatOffline     ScreenType = "chat_offline"
	ScreenChatSignedOut   ScreenType = "chat_signed_out"
	ScreenChatHomeRoom    ScreenType = "chat_home_room"
	ScreenChatGroupList   ScreenType = "chat_group_list"
	ScreenChatRoom        ScreenType = "chat_room"
	ScreenGameOffline     ScreenType = "game_offline"
	ScreenGameSignedOut   ScreenType = "game_signed_out"
	ScreenGameHomeRoom    ScreenType = "game_home_room"
	ScreenGameGroupList   ScreenType = "game_group_list"
	ScreenGameRoom        ScreenType = "game_room"
	ScreenExperience      ScreenType = "game_experience"
	ScreenExperienceSetup ScreenType = "game_experience_setup"
	ScreenExperienceList  ScreenType = "game_experience_list"
)

// ListEntry is the selected-item payload handed to explicit navigation.
type ListEntry struct {
	GroupKey string `json:"group_key,omitempty"`
	RoomKey  string `json:"room_key,omitempty"`
	GameType string `json:"game_type,omitempty"`
	RecordID string `json:"record_id,omitempty"`
}

// NavigationTarget is the resolved next-screen descriptor. It is created
// fresh on every resolution and immutable once constructed. GroupKey and
// RoomKey are set only for drill-down screens.
type NavigationTarget struct {
	ScreenKind ScreenKind `json:"screen_kind"`
	ScreenType ScreenType `json:"screen_type"`
	GroupKey   string     `json:"group_key,omitempty"`
	RoomKey    string     `json:"room_key,omitempty"`
	Payload    *ListEntry `json:"payload,omitempty"`
}
