package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/carenestapp/carenest/internal/chatkey"
	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
)

// GroupService handles care groups: caregiver-owned broadcast channels with
// caregiver-only posting rights, plus the caregiver's contact book and
// participant suggestions.
type GroupService struct {
	groups      GroupStore
	messages    MessageStore
	contacts    ContactStore
	profiles    ProfileStore
	guard       *Guard
	attachments *AttachmentService
	notifier    Notifier
}

func NewGroupService(
	groups GroupStore,
	messages MessageStore,
	contacts ContactStore,
	profiles ProfileStore,
	guard *Guard,
	attachments *AttachmentService,
	notifier Notifier,
) *GroupService {
	return &GroupService{
		groups:      groups,
		messages:    messages,
		contacts:    contacts,
		profiles:    profiles,
		guard:       guard,
		attachments: attachments,
		notifier:    notifier,
	}
}

// requireCaregiver resolves the caller's profile and rejects anyone who is
// not a caregiver. Group creation, suggestions and the contact book are
// caregiver-side features.
func (s *GroupService) requireCaregiver(callerID uuid.UUID) error {
	profile, err := s.profiles.FindByID(callerID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return apperr.Forbidden("caregiver account required")
		}
		return err
	}
	if profile.Role != model.RoleCaregiver {
		return apperr.Forbidden("caregiver account required")
	}
	return nil
}

// Create creates a care group for the caregiver with a validated,
// deduplicated parent set. A parent already belonging to a different
// caregiver's group cannot be added: one group membership per parent.
func (s *GroupService) Create(caregiverID uuid.UUID, req model.CreateGroupRequest) (*model.CareGroup, error) {
	if err := s.requireCaregiver(caregiverID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.InvalidArg("group name is required")
	}

	parents, err := s.validateParents(caregiverID, req.ParentIDs, nil)
	if err != nil {
		return nil, err
	}

	group := &model.CareGroup{
		CaregiverID:    caregiverID,
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		CareTimes:      strings.TrimSpace(req.CareTimes),
		AdminIDs:       []string{caregiverID.String()},
		ParticipantIDs: parents,
		MutedBy:        []string{},
		LeftBy:         []string{},
	}

	if err := s.groups.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

// validateParents dedupes the requested parent ids, drops the caregiver and
// anyone already in keep, and enforces that each id resolves to a parent
// profile not bound to another caregiver's group.
func (s *GroupService) validateParents(caregiverID uuid.UUID, requested []uuid.UUID, keep []string) ([]string, error) {
	seen := map[string]bool{}
	for _, id := range keep {
		seen[id] = true
	}

	parents := []string{}
	for _, parentID := range requested {
		if parentID == uuid.Nil || parentID == caregiverID || seen[parentID.String()] {
			continue
		}
		seen[parentID.String()] = true

		profile, err := s.profiles.FindByID(parentID)
		if err != nil {
			if apperr.Is(err, apperr.CodeNotFound) {
				return nil, apperr.InvalidArg("unknown parent: " + parentID.String())
			}
			return nil, err
		}
		if profile.Role != model.RoleParent {
			return nil, apperr.InvalidArg("only parents can be group participants")
		}

		taken, err := s.groups.ParentInOtherGroup(parentID, caregiverID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.InvalidArg("parent " + parentID.String() + " already belongs to another caregiver's group")
		}

		parents = append(parents, parentID.String())
	}
	return parents, nil
}

// Get returns the group for a member
func (s *GroupService) Get(groupID, callerID uuid.UUID) (*model.CareGroup, error) {
	return s.guard.AuthorizeGroup(groupID, callerID)
}

// ListForUser returns the caller's groups, excluding any they left,
// latest activity first.
func (s *GroupService) ListForUser(userID uuid.UUID) ([]model.CareGroup, error) {
	return s.groups.ListForUser(userID)
}

// SendMessage appends a broadcast from the owning caregiver. Any other
// sender, parent members included, is Forbidden. The message snapshots the
// full participant set at send time.
func (s *GroupService) SendMessage(ctx context.Context, groupID, senderID uuid.UUID, req model.SendGroupMessageRequest) (*model.GroupMessage, error) {
	group, err := s.guard.AuthorizeGroup(groupID, senderID)
	if err != nil {
		return nil, err
	}
	if senderID != group.CaregiverID {
		return nil, apperr.Forbidden("only the group's caregiver can post")
	}

	body := strings.TrimSpace(req.Body)
	if body == "" && len(req.Attachments) == 0 {
		return nil, apperr.InvalidArg("message needs a body or at least one attachment")
	}

	key := chatkey.Group(group.CaregiverID)
	attachments := []model.Attachment{}
	for _, upload := range req.Attachments {
		att, err := s.attachments.Store(ctx, upload, key)
		if err != nil {
			return nil, err
		}
		if att != nil {
			attachments = append(attachments, *att)
		}
	}
	if body == "" && len(attachments) == 0 {
		return nil, apperr.InvalidArg("message needs a body or at least one attachment")
	}

	msg := &model.GroupMessage{
		GroupID:        group.ID,
		SenderID:       senderID,
		ParticipantIDs: group.AllParticipantIDs(),
		Body:           body,
		ReadBy:         []string{senderID.String()},
		Attachments:    attachments,
	}

	if err := s.groups.CreateMessage(msg); err != nil {
		return nil, err
	}

	// Separate write from the insert above; the message is already persisted,
	// so a stale updated_at is accepted rather than failing the send.
	if err := s.groups.TouchUpdatedAt(group.ID); err != nil {
		log.Printf("⚠️ Failed to touch updated_at for group %s: %v", group.ID, err)
	}

	for _, raw := range group.ParticipantIDs {
		parentID, err := uuid.Parse(raw)
		if err != nil || parentID == senderID {
			continue
		}
		if group.HasLeft(parentID) || group.HasMuted(parentID) {
			continue
		}
		s.notifier.Enqueue(Notification{
			RecipientID:     parentID,
			SenderID:        senderID,
			Body:            body,
			ConversationKey: key,
		})
	}

	return msg, nil
}

// ListMessages returns a group's messages oldest-first for a member
func (s *GroupService) ListMessages(groupID, callerID uuid.UUID) ([]model.GroupMessage, error) {
	if _, err := s.guard.AuthorizeGroup(groupID, callerID); err != nil {
		return nil, err
	}
	return s.groups.ListMessages(groupID)
}

// MarkRead marks every group message as read by the caller; idempotent.
func (s *GroupService) MarkRead(groupID, callerID uuid.UUID) error {
	if _, err := s.guard.AuthorizeGroup(groupID, callerID); err != nil {
		return err
	}
	return s.groups.MarkMessagesRead(groupID, callerID)
}

// SetMuted mutes or unmutes the group for the caller; idempotent.
func (s *GroupService) SetMuted(groupID, callerID uuid.UUID, muted bool) error {
	if _, err := s.guard.AuthorizeGroup(groupID, callerID); err != nil {
		return err
	}
	return s.groups.SetMuted(groupID, callerID, muted)
}

// Leave adds the caller to the group's left set. Their participant entry and
// the group's history are retained; only their own listing changes.
func (s *GroupService) Leave(groupID, callerID uuid.UUID) error {
	if _, err := s.guard.AuthorizeGroup(groupID, callerID); err != nil {
		return err
	}
	return s.groups.MarkLeft(groupID, callerID)
}

// UpdateParticipants lets the owning caregiver add and remove parents.
// Re-adding a parent who left clears their left state.
func (s *GroupService) UpdateParticipants(groupID, callerID uuid.UUID, req model.UpdateParticipantsRequest) (*model.CareGroup, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if callerID != group.CaregiverID {
		return nil, apperr.Forbidden("only the group's caregiver can manage participants")
	}

	remove := map[string]bool{}
	for _, id := range req.Remove {
		remove[id.String()] = true
	}

	kept := []string{}
	for _, id := range group.ParticipantIDs {
		if !remove[id] {
			kept = append(kept, id)
		}
	}

	added, err := s.validateParents(group.CaregiverID, req.Add, kept)
	if err != nil {
		return nil, err
	}
	participants := append(kept, added...)

	if err := s.groups.UpdateParticipants(group.ID, participants); err != nil {
		return nil, err
	}
	for _, raw := range added {
		if parentID, err := uuid.Parse(raw); err == nil && group.HasLeft(parentID) {
			if err := s.groups.ClearLeft(group.ID, parentID); err != nil {
				return nil, err
			}
		}
	}

	return s.groups.FindByID(group.ID)
}

// Suggestions returns the caregiver's candidate participants: saved contacts
// unioned with parents from direct-message history, deduplicated by parent
// id and sorted by most recent contact, newest first.
func (s *GroupService) Suggestions(caregiverID uuid.UUID) ([]model.ParticipantSuggestion, error) {
	if err := s.requireCaregiver(caregiverID); err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListByCaregiver(caregiverID)
	if err != nil {
		return nil, err
	}
	partners, err := s.messages.DistinctPartners(caregiverID)
	if err != nil {
		return nil, err
	}

	byParent := map[uuid.UUID]*model.ParticipantSuggestion{}
	for _, c := range contacts {
		byParent[c.ParentID] = &model.ParticipantSuggestion{
			ParentID:      c.ParentID,
			LastContactAt: c.UpdatedAt,
			InContacts:    true,
		}
	}
	for _, p := range partners {
		if existing, ok := byParent[p.PartnerID]; ok {
			// Message recency beats the contact-book timestamp.
			if p.LastContactAt.After(existing.LastContactAt) {
				existing.LastContactAt = p.LastContactAt
			}
			continue
		}
		byParent[p.PartnerID] = &model.ParticipantSuggestion{
			ParentID:      p.PartnerID,
			LastContactAt: p.LastContactAt,
		}
	}

	suggestions := make([]model.ParticipantSuggestion, 0, len(byParent))
	for _, sg := range byParent {
		profile, err := s.profiles.FindByID(sg.ParentID)
		if err != nil || profile.Role != model.RoleParent {
			// Deleted accounts and non-parents are not suggestable.
			continue
		}
		sg.Name = profile.Name
		suggestions = append(suggestions, *sg)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].LastContactAt.After(suggestions[j].LastContactAt)
	})
	return suggestions, nil
}

// AddContact upserts an address-book entry for a parent, independent of any
// group or conversation.
func (s *GroupService) AddContact(caregiverID, parentID uuid.UUID) (*model.CaregiverContact, error) {
	if err := s.requireCaregiver(caregiverID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindByID(parentID)
	if err != nil {
		if apperr.Is(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidArg("unknown parent")
		}
		return nil, err
	}
	if profile.Role != model.RoleParent {
		return nil, apperr.InvalidArg("contacts can only reference parents")
	}

	contact := &model.CaregiverContact{
		CaregiverID: caregiverID,
		ParentID:    parentID,
	}
	if err := s.contacts.Upsert(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// RemoveContact deletes an address-book entry
func (s *GroupService) RemoveContact(caregiverID, parentID uuid.UUID) error {
	if err := s.requireCaregiver(caregiverID); err != nil {
		return err
	}
	return s.contacts.Delete(caregiverID, parentID)
}

// ListContacts returns the caregiver's address book
func (s *GroupService) ListContacts(caregiverID uuid.UUID) ([]model.CaregiverContact, error) {
	if err := s.requireCaregiver(caregiverID); err != nil {
		return nil, err
	}
	return s.contacts.ListByCaregiver(caregiverID)
}
