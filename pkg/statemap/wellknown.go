package statemap

import "github.com/Sumatoshi-tech/statemap/pkg/intern"

// Well-known Matrix state event types. These recur in virtually every
// room, so NewTable preseeds them and their symbols are identical
// across every map created with a default table.
const (
	// TypeCreate is the creation event type.
	TypeCreate = "m.room.create"
	// TypePowerLevels is the power levels event type.
	TypePowerLevels = "m.room.power_levels"
	// TypeJoinRules is the join rules event type.
	TypeJoinRules = "m.room.join_rules"
	// TypeHistoryVisibility is the history visibility event type.
	TypeHistoryVisibility = "m.room.history_visibility"
	// TypeName is the room name event type.
	TypeName = "m.room.name"
	// TypeTopic is the room topic event type.
	TypeTopic = "m.room.topic"
	// TypeAvatar is the room avatar event type.
	TypeAvatar = "m.room.avatar"
	// TypeGuestAccess is the guest access event type.
	TypeGuestAccess = "m.room.guest_access"
	// TypeCanonicalAlias is the canonical alias event type.
	TypeCanonicalAlias = "m.room.canonical_alias"
	// TypeRelatedGroups is the related groups event type.
	TypeRelatedGroups = "m.room.related_groups"
	// TypeEncryption is the encryption event type.
	TypeEncryption = "m.room.encryption"
	// TypeMember is the membership event type; its state key is a user ID.
	TypeMember = "m.room.member"
	// TypeAliases is the aliases event type; its state key is a server name.
	TypeAliases = "m.room.aliases"
	// TypeThirdPartyInvite is the third-party invite event type; its
	// state key is an invite token.
	TypeThirdPartyInvite = "m.room.third_party_invite"
)

// wellKnownTypes lists the preseeded event types in symbol order. The
// empty string comes first: it is the state key of every singleton
// state event.
var wellKnownTypes = []string{
	"",
	TypeCreate,
	TypePowerLevels,
	TypeJoinRules,
	TypeHistoryVisibility,
	TypeName,
	TypeTopic,
	TypeAvatar,
	TypeGuestAccess,
	TypeCanonicalAlias,
	TypeRelatedGroups,
	TypeEncryption,
	TypeMember,
	TypeAliases,
	TypeThirdPartyInvite,
}

// WellKnownTypes returns the event types preseeded by NewTable,
// excluding the empty state key.
func WellKnownTypes() []string {
	types := make([]string, 0, len(wellKnownTypes)-1)
	types = append(types, wellKnownTypes[1:]...)

	return types
}

// NewTable creates an intern table preseeded with the empty string and
// the well-known Matrix event types. Sharing one such table across the
// maps of many rooms stores each recurring string once.
func NewTable() *intern.Table {
	table := intern.NewTable()

	for _, t := range wellKnownTypes {
		table.Intern(t)
	}

	return table
}
