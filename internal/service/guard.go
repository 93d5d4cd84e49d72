package service

import (
	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
)

// Guard authorizes callers against conversations and groups. Direct
// conversations have no membership record of their own: the participant set
// is inferred from persisted message history, and an empty history means the
// first writer defines it.
type Guard struct {
	messages MessageStore
	groups   GroupStore
}

func NewGuard(messages MessageStore, groups GroupStore) *Guard {
	return &Guard{messages: messages, groups: groups}
}

// AuthorizeConversation allows the caller when the conversation's history
// already lists them as a participant, or when no history exists yet. A
// caller outside an existing conversation's participant set is Forbidden
// even if they were handed the key.
func (g *Guard) AuthorizeConversation(key string, callerID uuid.UUID) error {
	ok, err := g.messages.IsParticipant(key, callerID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	exists, err := g.messages.HasConversation(key)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Forbidden("you are not a participant in this conversation")
	}

	// No history yet: the first message's sender/recipient pair will define
	// the participant set.
	return nil
}

// AuthorizeGroup requires the group to exist and the caller to be its
// caregiver or one of its parents. Returns the group so callers avoid a
// second lookup.
func (g *Guard) AuthorizeGroup(groupID, callerID uuid.UUID) (*model.CareGroup, error) {
	group, err := g.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasParticipant(callerID) {
		return nil, apperr.Forbidden("you are not a member of this group")
	}
	return group, nil
}
