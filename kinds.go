package nostr

import "strconv"

type Kind uint16

func (kind Kind) Num() uint16    { return uint16(kind) }
func (kind Kind) String() string { return "kind::" + kind.Name() + "<" + strconv.Itoa(int(kind)) + ">" }
func (kind Kind) Name() string {
	switch kind {
	case KindProfileMetadata:
		return "ProfileMetadata"
	case KindTextNote:
		return "TextNote"
	case KindFollowList:
		return "FollowList"
	case KindDeletion:
		return "Deletion"
	case KindRepost:
		return "Repost"
	case KindReaction:
		return "Reaction"
	case KindMuteList:
		return "MuteList"
	case KindRelayListMetadata:
		return "RelayListMetadata"
	case KindClientAuthentication:
		return "ClientAuthentication"
	case KindNostrConnect:
		return "NostrConnect"
	case KindArticle:
		return "Article"
	case KindApplicationSpecificData:
		return "ApplicationSpecificData"
	}
	return "unknown"
}

const (
	KindProfileMetadata         Kind = 0
	KindTextNote                Kind = 1
	KindFollowList              Kind = 3
	KindDeletion                Kind = 5
	KindRepost                  Kind = 6
	KindReaction                Kind = 7
	KindMuteList                Kind = 10000
	KindRelayListMetadata       Kind = 10002
	KindClientAuthentication    Kind = 22242
	KindNostrConnect            Kind = 24133
	KindArticle                 Kind = 30023
	KindApplicationSpecificData Kind = 30078
)

func (kind Kind) IsRegular() bool {
	return !kind.IsReplaceable() && !kind.IsEphemeral() && !kind.IsAddressable()
}

func (kind Kind) IsReplaceable() bool {
	return kind == 0 || kind == 3 || (10000 <= kind && kind < 20000)
}

func (kind Kind) IsEphemeral() bool {
	return 20000 <= kind && kind < 30000
}

func (kind Kind) IsAddressable() bool {
	return 30000 <= kind && kind < 40000
}
