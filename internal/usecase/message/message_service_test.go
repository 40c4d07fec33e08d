package message

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
	"github.com/classhub-team/classhub/pkg/crypto"
)

type stubHubRepo struct {
	hubs map[uuid.UUID]*entities.Hub
}

func (r *stubHubRepo) Create(ctx context.Context, hub *entities.Hub) error { return nil }
func (r *stubHubRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Hub, error) {
	h, ok := r.hubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}
func (r *stubHubRepo) FindBySlug(ctx context.Context, slug string) (*entities.Hub, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubHubRepo) FindByStreamRoomName(ctx context.Context, roomName string) (*entities.Hub, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubHubRepo) Update(ctx context.Context, hub *entities.Hub) error { return nil }
func (r *stubHubRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *stubHubRepo) List(ctx context.Context, filters repositories.HubFilters) ([]*entities.Hub, int64, error) {
	return nil, 0, nil
}
func (r *stubHubRepo) FindByTeacherID(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]*entities.Hub, error) {
	return nil, nil
}
func (r *stubHubRepo) IncrementMemberCount(ctx context.Context, hubID uuid.UUID) error { return nil }
func (r *stubHubRepo) DecrementMemberCount(ctx context.Context, hubID uuid.UUID) error { return nil }
func (r *stubHubRepo) UpdateStatus(ctx context.Context, hubID uuid.UUID, status entities.HubStatus) error {
	return nil
}

type stubMembershipRepo struct{}

func (r *stubMembershipRepo) Create(ctx context.Context, m *entities.Membership) error { return nil }
func (r *stubMembershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubMembershipRepo) FindByHubAndUser(ctx context.Context, hubID, userID uuid.UUID) (*entities.Membership, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubMembershipRepo) Update(ctx context.Context, m *entities.Membership) error { return nil }
func (r *stubMembershipRepo) ListByHub(ctx context.Context, hubID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	return nil, nil
}
func (r *stubMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	return nil, nil
}
func (r *stubMembershipRepo) CountActiveByHub(ctx context.Context, hubID uuid.UUID) (int64, error) {
	return 0, nil
}

type memMessageRepo struct {
	messages map[uuid.UUID]*entities.Message
	replies  map[uuid.UUID]*entities.Reply
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{
		messages: make(map[uuid.UUID]*entities.Message),
		replies:  make(map[uuid.UUID]*entities.Reply),
	}
}

func (r *memMessageRepo) CreateMessage(ctx context.Context, m *entities.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	stored := *m
	r.messages[m.ID] = &stored
	return nil
}
func (r *memMessageRepo) FindMessageByID(ctx context.Context, id uuid.UUID) (*entities.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *m
	return &clone, nil
}
func (r *memMessageRepo) ListMessages(ctx context.Context, hubID uuid.UUID, filters repositories.MessageFilters) ([]*entities.Message, int64, error) {
	var out []*entities.Message
	for _, m := range r.messages {
		if m.HubID == hubID {
			out = append(out, m)
		}
	}
	return out, int64(len(out)), nil
}
func (r *memMessageRepo) ListAllMessages(ctx context.Context, hubID uuid.UUID) ([]*entities.Message, error) {
	ms, _, err := r.ListMessages(ctx, hubID, repositories.MessageFilters{})
	return ms, err
}
func (r *memMessageRepo) UpdateMessage(ctx context.Context, m *entities.Message) error {
	r.messages[m.ID] = m
	return nil
}
func (r *memMessageRepo) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	delete(r.messages, id)
	return nil
}
func (r *memMessageRepo) CreateReply(ctx context.Context, reply *entities.Reply) error {
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	stored := *reply
	r.replies[reply.ID] = &stored
	return nil
}
func (r *memMessageRepo) FindReplyByID(ctx context.Context, id uuid.UUID) (*entities.Reply, error) {
	reply, ok := r.replies[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *reply
	return &clone, nil
}
func (r *memMessageRepo) ListReplies(ctx context.Context, messageID uuid.UUID) ([]*entities.Reply, error) {
	var out []*entities.Reply
	for _, reply := range r.replies {
		if reply.MessageID == messageID {
			out = append(out, reply)
		}
	}
	return out, nil
}
func (r *memMessageRepo) ListAllReplies(ctx context.Context, hubID uuid.UUID) ([]*entities.Reply, error) {
	return nil, nil
}
func (r *memMessageRepo) AdjustMessageVotes(ctx context.Context, messageID uuid.UUID, kind entities.VoteKind) error {
	m, ok := r.messages[messageID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if kind == entities.VoteUp {
		m.Upvotes++
	} else {
		m.Downvotes++
	}
	return nil
}
func (r *memMessageRepo) AdjustReplyVotes(ctx context.Context, replyID uuid.UUID, kind entities.VoteKind) error {
	reply, ok := r.replies[replyID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if kind == entities.VoteUp {
		reply.Upvotes++
	} else {
		reply.Downvotes++
	}
	return nil
}

type memEventRepo struct {
	votes     []*entities.VoteEvent
	pollVotes []*entities.PollVoteEvent
}

func (r *memEventRepo) AppendVote(ctx context.Context, e *entities.VoteEvent) error {
	r.votes = append(r.votes, e)
	return nil
}
func (r *memEventRepo) AppendPollVote(ctx context.Context, e *entities.PollVoteEvent) error {
	r.pollVotes = append(r.pollVotes, e)
	return nil
}
func (r *memEventRepo) ListVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.VoteEvent, error) {
	return r.votes, nil
}
func (r *memEventRepo) ListPollVotesByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.PollVoteEvent, error) {
	return r.pollVotes, nil
}
func (r *memEventRepo) CountPollVotesByOption(ctx context.Context, pollID uuid.UUID) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, e := range r.pollVotes {
		if e.PollID == pollID {
			counts[e.Option]++
		}
	}
	return counts, nil
}

type memBookmarkRepo struct {
	bookmarks []*entities.Bookmark
}

func (r *memBookmarkRepo) Create(ctx context.Context, b *entities.Bookmark) error {
	for _, existing := range r.bookmarks {
		if existing.UserID == b.UserID && existing.MessageID == b.MessageID {
			return nil
		}
	}
	r.bookmarks = append(r.bookmarks, b)
	return nil
}
func (r *memBookmarkRepo) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	out := r.bookmarks[:0]
	for _, b := range r.bookmarks {
		if b.UserID != userID || b.MessageID != messageID {
			out = append(out, b)
		}
	}
	r.bookmarks = out
	return nil
}
func (r *memBookmarkRepo) ListByUser(ctx context.Context, hubID, userID uuid.UUID) ([]*entities.Bookmark, error) {
	var out []*entities.Bookmark
	for _, b := range r.bookmarks {
		if b.HubID == hubID && b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *memBookmarkRepo) ListByHub(ctx context.Context, hubID uuid.UUID) ([]*entities.Bookmark, error) {
	return r.bookmarks, nil
}

type stubNotificationRepo struct{}

func (r *stubNotificationRepo) Create(ctx context.Context, n *entities.Notification) error {
	return nil
}
func (r *stubNotificationRepo) CreateBatch(ctx context.Context, ns []*entities.Notification) error {
	return nil
}
func (r *stubNotificationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entities.Notification, int64, error) {
	return nil, 0, nil
}
func (r *stubNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error       { return nil }
func (r *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error { return nil }
func (r *stubNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubUploader struct{}

func (u *stubUploader) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	return nil
}
func (u *stubUploader) GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func newTestMessageService(t *testing.T) (*MessageService, *stubHubRepo, *memMessageRepo, *memEventRepo) {
	t.Helper()

	box, err := crypto.NewBox(testKey)
	if err != nil {
		t.Fatalf("crypto.NewBox: %v", err)
	}

	hubRepo := &stubHubRepo{hubs: map[uuid.UUID]*entities.Hub{}}
	messageRepo := newMemMessageRepo()
	eventRepo := &memEventRepo{}

	svc := NewMessageService(
		hubRepo,
		&stubMembershipRepo{},
		messageRepo,
		eventRepo,
		&memBookmarkRepo{},
		&stubNotificationRepo{},
		&stubUploader{},
		box,
	)
	return svc, hubRepo, messageRepo, eventRepo
}

func addHub(hubRepo *stubHubRepo, settings map[string]interface{}) *entities.Hub {
	merged := entities.DefaultSettings()
	for k, v := range settings {
		merged[k] = v
	}
	settingsJSON, _ := json.Marshal(merged)

	hub := &entities.Hub{
		ID:        uuid.New(),
		Name:      "Physics 101",
		Slug:      "physics-101-abc1",
		TeacherID: uuid.New(),
		Status:    entities.HubStatusActive,
		Settings:  settingsJSON,
	}
	hubRepo.hubs[hub.ID] = hub
	return hub
}

func TestPostMessageEncryptsAtRest(t *testing.T) {
	svc, hubRepo, messageRepo, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	msg, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "what is entropy?",
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if msg.Content != "what is entropy?" {
		t.Fatalf("returned content = %q, want plaintext", msg.Content)
	}

	stored := messageRepo.messages[msg.ID]
	if stored.Content == "what is entropy?" || stored.Content == "" {
		t.Fatalf("stored content should be ciphertext, got %q", stored.Content)
	}
}

func TestPostMessageRejectsEmpty(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	_, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
	})
	if !errors.Is(err, usecaseErrors.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestPostMessageArchivedHub(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)
	hub.Status = entities.HubStatusArchived

	_, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "anyone there?",
	})
	if !errors.Is(err, usecaseErrors.ErrHubArchived) {
		t.Fatalf("err = %v, want ErrHubArchived", err)
	}
}

func TestStudentPollsRequireSetting(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil) // allow_student_polls defaults to false

	input := PostMessageInput{
		HubID:       hub.ID,
		SenderID:    uuid.New(),
		SenderRole:  entities.RoleStudent,
		Content:     "favorite topic?",
		IsPoll:      true,
		PollOptions: []string{"waves", "optics"},
	}
	if _, err := svc.PostMessage(context.Background(), input); !errors.Is(err, usecaseErrors.ErrStudentPollsClosed) {
		t.Fatalf("err = %v, want ErrStudentPollsClosed", err)
	}

	// Teachers are always allowed
	input.SenderRole = entities.RoleTeacher
	if _, err := svc.PostMessage(context.Background(), input); err != nil {
		t.Fatalf("teacher poll: %v", err)
	}

	// Students allowed once the setting is on
	openHub := addHub(hubRepo, map[string]interface{}{"allow_student_polls": true})
	input.HubID = openHub.ID
	input.SenderRole = entities.RoleStudent
	if _, err := svc.PostMessage(context.Background(), input); err != nil {
		t.Fatalf("student poll with setting on: %v", err)
	}
}

func TestPollNeedsTwoOptions(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	_, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:       hub.ID,
		SenderID:    uuid.New(),
		SenderRole:  entities.RoleTeacher,
		Content:     "pick one",
		IsPoll:      true,
		PollOptions: []string{"only"},
	})
	if !errors.Is(err, usecaseErrors.ErrPollNeedsOptions) {
		t.Fatalf("err = %v, want ErrPollNeedsOptions", err)
	}
}

func TestRepeatVotesAppendEvents(t *testing.T) {
	svc, hubRepo, messageRepo, eventRepo := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	msg, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "vote me up",
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}

	voter := uuid.New()
	for i := 0; i < 2; i++ {
		err := svc.Vote(context.Background(), VoteInput{
			HubID:     hub.ID,
			UserID:    voter,
			ContentID: msg.ID,
			Kind:      entities.VoteUp,
		})
		if err != nil {
			t.Fatalf("Vote #%d: %v", i+1, err)
		}
	}

	// Same user voting twice counts twice, never deduplicated
	if len(eventRepo.votes) != 2 {
		t.Fatalf("vote events = %d, want 2", len(eventRepo.votes))
	}
	stored := messageRepo.messages[msg.ID]
	if stored.Upvotes != 2 {
		t.Fatalf("upvotes = %d, want 2", stored.Upvotes)
	}
}

func TestVoteRejectsInvalidKind(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	err := svc.Vote(context.Background(), VoteInput{
		HubID:     hub.ID,
		UserID:    uuid.New(),
		ContentID: uuid.New(),
		Kind:      entities.VoteKind("sideways"),
	})
	if !errors.Is(err, usecaseErrors.ErrInvalidVoteKind) {
		t.Fatalf("err = %v, want ErrInvalidVoteKind", err)
	}
}

func TestVotePollValidatesOption(t *testing.T) {
	svc, hubRepo, _, eventRepo := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	poll, err := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:       hub.ID,
		SenderID:    uuid.New(),
		SenderRole:  entities.RoleTeacher,
		Content:     "best unit?",
		IsPoll:      true,
		PollOptions: []string{"mechanics", "thermo"},
	})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}

	badVote := VotePollInput{HubID: hub.ID, UserID: uuid.New(), PollID: poll.ID, Option: "astrology"}
	if err := svc.VotePoll(context.Background(), badVote); !errors.Is(err, usecaseErrors.ErrInvalidPollOption) {
		t.Fatalf("err = %v, want ErrInvalidPollOption", err)
	}

	voter := uuid.New()
	for i := 0; i < 3; i++ {
		vote := VotePollInput{HubID: hub.ID, UserID: voter, PollID: poll.ID, Option: "thermo"}
		if err := svc.VotePoll(context.Background(), vote); err != nil {
			t.Fatalf("VotePoll #%d: %v", i+1, err)
		}
	}
	if len(eventRepo.pollVotes) != 3 {
		t.Fatalf("poll vote events = %d, want 3", len(eventRepo.pollVotes))
	}

	results, err := svc.PollResults(context.Background(), poll.ID)
	if err != nil {
		t.Fatalf("PollResults: %v", err)
	}
	if results["thermo"] != 3 {
		t.Fatalf("thermo = %d, want 3", results["thermo"])
	}
	// Declared options with no votes still appear, zeroed
	if count, ok := results["mechanics"]; !ok || count != 0 {
		t.Fatalf("mechanics = %d (present=%v), want 0", count, ok)
	}
}

func TestVotePollOnNonPoll(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	msg, _ := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "not a poll",
	})

	err := svc.VotePoll(context.Background(), VotePollInput{
		HubID:  hub.ID,
		UserID: uuid.New(),
		PollID: msg.ID,
		Option: "anything",
	})
	if !errors.Is(err, usecaseErrors.ErrNotAPoll) {
		t.Fatalf("err = %v, want ErrNotAPoll", err)
	}
}

func TestBookmarkRoundTrip(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)
	userID := uuid.New()

	msg, _ := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "save me",
	})

	if err := svc.BookmarkMessage(context.Background(), hub.ID, userID, msg.ID); err != nil {
		t.Fatalf("BookmarkMessage: %v", err)
	}
	// Bookmarking twice is idempotent
	if err := svc.BookmarkMessage(context.Background(), hub.ID, userID, msg.ID); err != nil {
		t.Fatalf("second BookmarkMessage: %v", err)
	}

	bookmarks, err := svc.ListBookmarks(context.Background(), hub.ID, userID)
	if err != nil {
		t.Fatalf("ListBookmarks: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("bookmarks = %d, want 1", len(bookmarks))
	}

	if err := svc.RemoveBookmark(context.Background(), userID, msg.ID); err != nil {
		t.Fatalf("RemoveBookmark: %v", err)
	}
	bookmarks, _ = svc.ListBookmarks(context.Background(), hub.ID, userID)
	if len(bookmarks) != 0 {
		t.Fatalf("bookmarks after removal = %d, want 0", len(bookmarks))
	}
}

func TestReplyRoundTripDecrypts(t *testing.T) {
	svc, hubRepo, _, _ := newTestMessageService(t)
	hub := addHub(hubRepo, nil)

	msg, _ := svc.PostMessage(context.Background(), PostMessageInput{
		HubID:      hub.ID,
		SenderID:   uuid.New(),
		SenderRole: entities.RoleStudent,
		Content:    "original",
	})

	reply, err := svc.PostReply(context.Background(), PostReplyInput{
		MessageID: msg.ID,
		SenderID:  uuid.New(),
		Content:   "me too",
	})
	if err != nil {
		t.Fatalf("PostReply: %v", err)
	}
	if reply.Content != "me too" {
		t.Fatalf("reply content = %q, want plaintext", reply.Content)
	}

	replies, err := svc.ListReplies(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0].Content != "me too" {
		t.Fatalf("replies = %+v", replies)
	}
}
