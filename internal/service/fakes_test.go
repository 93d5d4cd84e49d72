package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/carenestapp/carenest/pkg/push"
	"github.com/google/uuid"
)

// In-memory fakes for the store and collaborator interfaces. They mimic the
// gorm repositories' observable behavior, including the apperr codes the
// repositories return.

type fakeMessageStore struct {
	messages  []model.DirectMessage
	clock     time.Time
	createErr error
	deleteErr error

	deletedAttachmentIDs []uuid.UUID
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeMessageStore) nextTime() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeMessageStore) Create(msg *model.DirectMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = f.nextTime()
	}
	for i := range msg.Attachments {
		if msg.Attachments[i].ID == uuid.Nil {
			msg.Attachments[i].ID = uuid.New()
		}
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageStore) ListByConversation(key string) ([]model.DirectMessage, error) {
	out := []model.DirectMessage{}
	for _, m := range f.messages {
		if m.ConversationKey == key {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageStore) LatestPerConversation(userID uuid.UUID) ([]model.DirectMessage, error) {
	latest := map[string]model.DirectMessage{}
	for _, m := range f.messages {
		if !m.HasParticipant(userID) {
			continue
		}
		if cur, ok := latest[m.ConversationKey]; !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[m.ConversationKey] = m
		}
	}
	out := make([]model.DirectMessage, 0, len(latest))
	for _, m := range latest {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMessageStore) HasConversation(key string) (bool, error) {
	for _, m := range f.messages {
		if m.ConversationKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageStore) IsParticipant(key string, userID uuid.UUID) (bool, error) {
	for _, m := range f.messages {
		if m.ConversationKey == key && m.HasParticipant(userID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageStore) MarkRead(key string, userID uuid.UUID) error {
	id := userID.String()
	for i := range f.messages {
		if f.messages[i].ConversationKey != key {
			continue
		}
		already := false
		for _, r := range f.messages[i].ReadBy {
			if r == id {
				already = true
				break
			}
		}
		if !already {
			f.messages[i].ReadBy = append(f.messages[i].ReadBy, id)
		}
	}
	return nil
}

func (f *fakeMessageStore) DeleteConversationFor(key string, userID uuid.UUID) ([]model.Attachment, error) {
	kept := f.messages[:0]
	removed := []model.Attachment{}
	for _, m := range f.messages {
		if m.ConversationKey == key && m.HasParticipant(userID) {
			removed = append(removed, m.Attachments...)
			continue
		}
		kept = append(kept, m)
	}
	f.messages = kept
	return removed, nil
}

func (f *fakeMessageStore) DistinctPartners(userID uuid.UUID) ([]model.PartnerContact, error) {
	latest := map[uuid.UUID]time.Time{}
	for _, m := range f.messages {
		var partner uuid.UUID
		switch userID {
		case m.SenderID:
			partner = m.RecipientID
		case m.RecipientID:
			partner = m.SenderID
		default:
			continue
		}
		if m.CreatedAt.After(latest[partner]) {
			latest[partner] = m.CreatedAt
		}
	}
	out := make([]model.PartnerContact, 0, len(latest))
	for id, at := range latest {
		out = append(out, model.PartnerContact{PartnerID: id, LastContactAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastContactAt.After(out[j].LastContactAt) })
	return out, nil
}

func (f *fakeMessageStore) ListWithAttachments() ([]model.DirectMessage, error) {
	out := []model.DirectMessage{}
	for _, m := range f.messages {
		if len(m.Attachments) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) DeleteAttachments(ids []uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	f.deletedAttachmentIDs = append(f.deletedAttachmentIDs, ids...)
	for i := range f.messages {
		kept := f.messages[i].Attachments[:0]
		for _, att := range f.messages[i].Attachments {
			if !drop[att.ID] {
				kept = append(kept, att)
			}
		}
		f.messages[i].Attachments = kept
	}
	return nil
}

type fakeGroupStore struct {
	groups   map[uuid.UUID]*model.CareGroup
	messages []model.GroupMessage
	clock    time.Time

	createMsgErr error
	deleteErr    error
	touchErr     error

	deletedAttachmentIDs []uuid.UUID
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		groups: map[uuid.UUID]*model.CareGroup{},
		clock:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeGroupStore) nextTime() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeGroupStore) Create(group *model.CareGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	now := f.nextTime()
	group.CreatedAt = now
	group.UpdatedAt = now
	cp := *group
	f.groups[group.ID] = &cp
	return nil
}

func (f *fakeGroupStore) FindByID(id uuid.UUID) (*model.CareGroup, error) {
	group, ok := f.groups[id]
	if !ok {
		return nil, apperr.NotFound("group not found")
	}
	cp := *group
	return &cp, nil
}

func (f *fakeGroupStore) ListForUser(userID uuid.UUID) ([]model.CareGroup, error) {
	out := []model.CareGroup{}
	for _, g := range f.groups {
		if g.HasParticipant(userID) && !g.HasLeft(userID) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeGroupStore) UpdateParticipants(groupID uuid.UUID, participantIDs []string) error {
	group, ok := f.groups[groupID]
	if !ok {
		return apperr.NotFound("group not found")
	}
	group.ParticipantIDs = participantIDs
	group.UpdatedAt = f.nextTime()
	return nil
}

func (f *fakeGroupStore) SetMuted(groupID, userID uuid.UUID, muted bool) error {
	group, ok := f.groups[groupID]
	if !ok {
		return apperr.NotFound("group not found")
	}
	group.MutedBy = setMembership(group.MutedBy, userID.String(), muted)
	return nil
}

func (f *fakeGroupStore) MarkLeft(groupID, userID uuid.UUID) error {
	group, ok := f.groups[groupID]
	if !ok {
		return apperr.NotFound("group not found")
	}
	group.LeftBy = setMembership(group.LeftBy, userID.String(), true)
	return nil
}

func (f *fakeGroupStore) ClearLeft(groupID, userID uuid.UUID) error {
	group, ok := f.groups[groupID]
	if !ok {
		return apperr.NotFound("group not found")
	}
	group.LeftBy = setMembership(group.LeftBy, userID.String(), false)
	return nil
}

func (f *fakeGroupStore) ParentInOtherGroup(parentID, caregiverID uuid.UUID) (bool, error) {
	for _, g := range f.groups {
		if g.CaregiverID == caregiverID {
			continue
		}
		for _, id := range g.ParticipantIDs {
			if id == parentID.String() {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeGroupStore) TouchUpdatedAt(groupID uuid.UUID) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	group, ok := f.groups[groupID]
	if !ok {
		return apperr.NotFound("group not found")
	}
	group.UpdatedAt = f.nextTime()
	return nil
}

func (f *fakeGroupStore) CreateMessage(msg *model.GroupMessage) error {
	if f.createMsgErr != nil {
		return f.createMsgErr
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = f.nextTime()
	}
	for i := range msg.Attachments {
		if msg.Attachments[i].ID == uuid.Nil {
			msg.Attachments[i].ID = uuid.New()
		}
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeGroupStore) ListMessages(groupID uuid.UUID) ([]model.GroupMessage, error) {
	out := []model.GroupMessage{}
	for _, m := range f.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeGroupStore) MarkMessagesRead(groupID, userID uuid.UUID) error {
	id := userID.String()
	for i := range f.messages {
		if f.messages[i].GroupID != groupID {
			continue
		}
		already := false
		for _, r := range f.messages[i].ReadBy {
			if r == id {
				already = true
				break
			}
		}
		if !already {
			f.messages[i].ReadBy = append(f.messages[i].ReadBy, id)
		}
	}
	return nil
}

func (f *fakeGroupStore) ListMessagesWithAttachments() ([]model.GroupMessage, error) {
	out := []model.GroupMessage{}
	for _, m := range f.messages {
		if len(m.Attachments) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGroupStore) DeleteMessageAttachments(ids []uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	drop := map[uuid.UUID]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	f.deletedAttachmentIDs = append(f.deletedAttachmentIDs, ids...)
	for i := range f.messages {
		kept := f.messages[i].Attachments[:0]
		for _, att := range f.messages[i].Attachments {
			if !drop[att.ID] {
				kept = append(kept, att)
			}
		}
		f.messages[i].Attachments = kept
	}
	return nil
}

func setMembership(set []string, id string, present bool) []string {
	out := []string{}
	found := false
	for _, v := range set {
		if v == id {
			found = true
			if !present {
				continue
			}
		}
		out = append(out, v)
	}
	if present && !found {
		out = append(out, id)
	}
	return out
}

type fakeContactStore struct {
	contacts []model.CaregiverContact
	clock    time.Time
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeContactStore) Upsert(contact *model.CaregiverContact) error {
	f.clock = f.clock.Add(time.Second)
	for i := range f.contacts {
		if f.contacts[i].CaregiverID == contact.CaregiverID && f.contacts[i].ParentID == contact.ParentID {
			f.contacts[i].UpdatedAt = f.clock
			*contact = f.contacts[i]
			return nil
		}
	}
	contact.ID = uuid.New()
	contact.CreatedAt = f.clock
	contact.UpdatedAt = f.clock
	f.contacts = append(f.contacts, *contact)
	return nil
}

func (f *fakeContactStore) Delete(caregiverID, parentID uuid.UUID) error {
	for i := range f.contacts {
		if f.contacts[i].CaregiverID == caregiverID && f.contacts[i].ParentID == parentID {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("contact not found")
}

func (f *fakeContactStore) ListByCaregiver(caregiverID uuid.UUID) ([]model.CaregiverContact, error) {
	out := []model.CaregiverContact{}
	for _, c := range f.contacts {
		if c.CaregiverID == caregiverID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

type fakeProfileStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeProfileStore(users ...*model.User) *fakeProfileStore {
	f := &fakeProfileStore{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeProfileStore) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

type fakeObjectStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	putErr   error
	failKeys map[string]bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, failKeys: map[string]bool{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey] = data
	return "https://cdn.test/" + objectKey, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[objectKey] {
		return apperr.Internal("storage unavailable", nil)
	}
	delete(f.objects, objectKey)
	return nil
}

type emailCall struct {
	To         string
	Recipient  string
	SenderName string
	Preview    string
}

type fakeEmailSender struct {
	mu    sync.Mutex
	calls []emailCall
	err   error
}

func (f *fakeEmailSender) SendMessageNotification(toEmail, recipientName, senderName, preview string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, emailCall{To: toEmail, Recipient: recipientName, SenderName: senderName, Preview: preview})
	return f.err
}

type pushCall struct {
	RecipientID uuid.UUID
	Payload     push.Payload
}

type fakePushSender struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (f *fakePushSender) SendMessageNotification(ctx context.Context, recipientID uuid.UUID, payload push.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{RecipientID: recipientID, Payload: payload})
	return f.err
}

type fakeNotifier struct {
	notifications []Notification
}

func (f *fakeNotifier) Enqueue(n Notification) {
	f.notifications = append(f.notifications, n)
}
