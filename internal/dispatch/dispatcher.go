package dispatch

import (
	"context"

	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
)

// ExperienceCounter reports how many experiences of a game type exist in a
// room. Satisfied by the record repository.
type ExperienceCounter interface {
	CountExperiences(ctx context.Context, roomKey, gameType string) (int, error)
	GetLatestExperience(ctx context.Context, roomKey, gameType string) (models.Record, error)
}

// kindScreens declares the session-ladder outcomes for one screen kind.
type kindScreens struct {
	offline   models.ScreenType
	signedOut models.ScreenType
	home      models.ScreenType
	groupList models.ScreenType
}

// routes is the declarative kind x condition -> screen table.
var routes = map[models.ScreenKind]kindScreens{
	models.ScreenKindChat: {
		offline:   models.ScreenChatOffline,
		signedOut: models.ScreenChatSignedOut,
		home:      models.ScreenChatHomeRoom,
		groupList: models.ScreenChatGroupList,
	},
	models.ScreenKindGame: {
		offline:   models.ScreenGameOffline,
		signedOut: models.ScreenGameSignedOut,
		home:      models.ScreenGameHomeRoom,
		groupList: models.ScreenGameGroupList,
	},
}

// drillDownScreens are explicit targets that carry group/room keys.
var drillDownScreens = map[models.ScreenType]models.ScreenKind{
	models.ScreenChatRoom:        models.ScreenKindChat,
	models.ScreenGameRoom:        models.ScreenKindGame,
	models.ScreenExperience:      models.ScreenKindGame,
	models.ScreenExperienceSetup: models.ScreenKindGame,
	models.ScreenExperienceList:  models.ScreenKindGame,
}

// Dispatcher maps navigation requests and session state onto concrete
// screen targets.
type Dispatcher struct {
	experiences ExperienceCounter
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(experiences ExperienceCounter) *Dispatcher {
	return &Dispatcher{experiences: experiences}
}

// ResolveKind walks the session-state ladder for a kind. Exactly one branch
// is taken and the result is deterministic given the three state fields.
func (d *Dispatcher) ResolveKind(state models.SessionState, kind models.ScreenKind) (models.NavigationTarget, bool) {
	screens, ok := routes[kind]
	if !ok {
		observability.IncNavigationOutcome(string(kind), "unresolved")
		return models.NavigationTarget{}, false
	}

	var target models.NavigationTarget
	var outcome string
	switch {
	case !state.Connected:
		target = models.NavigationTarget{ScreenKind: kind, ScreenType: screens.offline}
		outcome = "offline"
	case !state.SignedIn || state.JoinedGroupCount == models.JoinedGroupsSignedOut:
		target = models.NavigationTarget{ScreenKind: kind, ScreenType: screens.signedOut}
		outcome = "signed_out"
	case state.JoinedGroupCount <= 1:
		// Zero groups means the private default group; exactly one joined
		// group is unambiguous. Both land on the home room.
		target = models.NavigationTarget{ScreenKind: kind, ScreenType: screens.home}
		outcome = "home"
	default:
		target = models.NavigationTarget{ScreenKind: kind, ScreenType: screens.groupList}
		outcome = "group_list"
	}
	observability.IncNavigationOutcome(string(kind), outcome)
	return target, true
}

// ResolveExplicit resolves a directly addressed screen, copying keys from
// the supplied entry. For the experience screen the number of existing
// instances of the game type in the room decides between creating one,
// opening the single instance, or redirecting to a disambiguation list.
// Unknown or empty screen types are a no-op, not an error.
func (d *Dispatcher) ResolveExplicit(ctx context.Context, screenType models.ScreenType, entry *models.ListEntry) (models.NavigationTarget, bool, error) {
	kind, ok := drillDownScreens[screenType]
	if !ok {
		observability.IncNavigationOutcome("explicit", "unresolved")
		return models.NavigationTarget{}, false, nil
	}

	target := models.NavigationTarget{ScreenKind: kind, ScreenType: screenType}
	if entry != nil {
		target.GroupKey = entry.GroupKey
		target.RoomKey = entry.RoomKey
		target.Payload = entry
	}

	if screenType == models.ScreenExperience && entry != nil && entry.GameType != "" {
		resolved, err := d.resolveExperience(ctx, target, entry)
		if err != nil {
			return models.NavigationTarget{}, false, err
		}
		target = resolved
	}

	observability.IncNavigationOutcome("explicit", string(target.ScreenType))
	return target, true, nil
}

func (d *Dispatcher) resolveExperience(ctx context.Context, target models.NavigationTarget, entry *models.ListEntry) (models.NavigationTarget, error) {
	count, err := d.experiences.CountExperiences(ctx, entry.RoomKey, entry.GameType)
	if err != nil {
		return models.NavigationTarget{}, err
	}
	switch {
	case count == 0:
		target.ScreenType = models.ScreenExperienceSetup
	case count == 1:
		record, err := d.experiences.GetLatestExperience(ctx, entry.RoomKey, entry.GameType)
		if err != nil {
			return models.NavigationTarget{}, err
		}
		payload := *entry
		payload.RecordID = record.ID
		target.Payload = &payload
	default:
		target.ScreenType = models.ScreenExperienceList
	}
	return target, nil
}
