package hub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	usecaseErrors "github.com/classhub-team/classhub/internal/usecase/errors"
)

type fakeHubRepo struct {
	hubs map[uuid.UUID]*entities.Hub
}

func newFakeHubRepo() *fakeHubRepo {
	return &fakeHubRepo{hubs: make(map[uuid.UUID]*entities.Hub)}
}

func (r *fakeHubRepo) Create(ctx context.Context, hub *entities.Hub) error {
	for _, h := range r.hubs {
		if h.Slug == hub.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	if hub.ID == uuid.Nil {
		hub.ID = uuid.New()
	}
	r.hubs[hub.ID] = hub
	return nil
}

func (r *fakeHubRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Hub, error) {
	h, ok := r.hubs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

func (r *fakeHubRepo) FindBySlug(ctx context.Context, slug string) (*entities.Hub, error) {
	for _, h := range r.hubs {
		if h.Slug == slug {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeHubRepo) FindByStreamRoomName(ctx context.Context, roomName string) (*entities.Hub, error) {
	for _, h := range r.hubs {
		if h.StreamRoomName != nil && *h.StreamRoomName == roomName {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeHubRepo) Update(ctx context.Context, hub *entities.Hub) error {
	r.hubs[hub.ID] = hub
	return nil
}

func (r *fakeHubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.hubs, id)
	return nil
}

func (r *fakeHubRepo) List(ctx context.Context, filters repositories.HubFilters) ([]*entities.Hub, int64, error) {
	out := make([]*entities.Hub, 0, len(r.hubs))
	for _, h := range r.hubs {
		if filters.Status != nil && h.Status != *filters.Status {
			continue
		}
		out = append(out, h)
	}
	return out, int64(len(out)), nil
}

func (r *fakeHubRepo) FindByTeacherID(ctx context.Context, teacherID uuid.UUID, limit, offset int) ([]*entities.Hub, error) {
	var out []*entities.Hub
	for _, h := range r.hubs {
		if h.TeacherID == teacherID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHubRepo) IncrementMemberCount(ctx context.Context, hubID uuid.UUID) error {
	if h, ok := r.hubs[hubID]; ok {
		h.MemberCount++
	}
	return nil
}

func (r *fakeHubRepo) DecrementMemberCount(ctx context.Context, hubID uuid.UUID) error {
	if h, ok := r.hubs[hubID]; ok {
		h.MemberCount--
	}
	return nil
}

func (r *fakeHubRepo) UpdateStatus(ctx context.Context, hubID uuid.UUID, status entities.HubStatus) error {
	h, ok := r.hubs[hubID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.Status = status
	return nil
}

type fakeMembershipRepo struct {
	memberships map[uuid.UUID]*entities.Membership
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{memberships: make(map[uuid.UUID]*entities.Membership)}
}

func (r *fakeMembershipRepo) Create(ctx context.Context, m *entities.Membership) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.memberships[m.ID] = m
	return nil
}

func (r *fakeMembershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Membership, error) {
	m, ok := r.memberships[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *fakeMembershipRepo) FindByHubAndUser(ctx context.Context, hubID, userID uuid.UUID) (*entities.Membership, error) {
	for _, m := range r.memberships {
		if m.HubID == hubID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMembershipRepo) Update(ctx context.Context, m *entities.Membership) error {
	r.memberships[m.ID] = m
	return nil
}

func (r *fakeMembershipRepo) ListByHub(ctx context.Context, hubID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	var out []*entities.Membership
	for _, m := range r.memberships {
		if m.HubID != hubID {
			continue
		}
		if activeOnly && !m.IsActive() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*entities.Membership, error) {
	var out []*entities.Membership
	for _, m := range r.memberships {
		if m.UserID != userID {
			continue
		}
		if activeOnly && !m.IsActive() {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMembershipRepo) CountActiveByHub(ctx context.Context, hubID uuid.UUID) (int64, error) {
	ms, _ := r.ListByHub(ctx, hubID, true)
	return int64(len(ms)), nil
}

func newTestService() (*HubService, *fakeHubRepo, *fakeMembershipRepo) {
	hubRepo := newFakeHubRepo()
	membershipRepo := newFakeMembershipRepo()
	return NewHubService(hubRepo, membershipRepo), hubRepo, membershipRepo
}

func TestCreateHubAddsTeacherAsMember(t *testing.T) {
	svc, _, memberships := newTestService()
	teacherID := uuid.New()

	hub, err := svc.CreateHub(context.Background(), CreateHubInput{
		Name:      "Physics 101",
		TeacherID: teacherID,
	})
	if err != nil {
		t.Fatalf("CreateHub: %v", err)
	}
	if hub.Slug == "" {
		t.Fatal("expected generated slug")
	}
	if hub.MemberCount != 1 {
		t.Fatalf("member_count = %d, want 1", hub.MemberCount)
	}

	m, err := memberships.FindByHubAndUser(context.Background(), hub.ID, teacherID)
	if err != nil || !m.IsActive() {
		t.Fatalf("teacher should be an active member, got %v, %v", m, err)
	}
}

func TestCreateHubRejectsShortName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateHub(context.Background(), CreateHubInput{Name: "ab", TeacherID: uuid.New()})
	if !errors.Is(err, usecaseErrors.ErrInvalidHubName) {
		t.Fatalf("err = %v, want ErrInvalidHubName", err)
	}
}

func TestJoinHubIsIdempotentOnActiveMembership(t *testing.T) {
	svc, _, _ := newTestService()
	teacherID, studentID := uuid.New(), uuid.New()

	hub, err := svc.CreateHub(context.Background(), CreateHubInput{Name: "Chemistry", TeacherID: teacherID})
	if err != nil {
		t.Fatalf("CreateHub: %v", err)
	}

	if _, err := svc.JoinHub(context.Background(), hub.Slug, studentID); err != nil {
		t.Fatalf("JoinHub: %v", err)
	}
	if _, err := svc.JoinHub(context.Background(), hub.Slug, studentID); !errors.Is(err, usecaseErrors.ErrAlreadyMember) {
		t.Fatalf("second join err = %v, want ErrAlreadyMember", err)
	}
}

func TestRejoinAfterLeaveReactivatesMembership(t *testing.T) {
	svc, _, memberships := newTestService()
	teacherID, studentID := uuid.New(), uuid.New()

	hub, _ := svc.CreateHub(context.Background(), CreateHubInput{Name: "Biology", TeacherID: teacherID})
	if _, err := svc.JoinHub(context.Background(), hub.Slug, studentID); err != nil {
		t.Fatalf("JoinHub: %v", err)
	}
	if err := svc.LeaveHub(context.Background(), hub.ID, studentID); err != nil {
		t.Fatalf("LeaveHub: %v", err)
	}
	if err := svc.RequireMember(context.Background(), hub.ID, studentID); !errors.Is(err, usecaseErrors.ErrNotMember) {
		t.Fatalf("after leave err = %v, want ErrNotMember", err)
	}

	if _, err := svc.JoinHub(context.Background(), hub.Slug, studentID); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	m, _ := memberships.FindByHubAndUser(context.Background(), hub.ID, studentID)
	if !m.IsActive() || m.LeftAt != nil {
		t.Fatalf("expected reactivated membership, got %+v", m)
	}
}

func TestTeacherCannotLeaveOwnHub(t *testing.T) {
	svc, _, _ := newTestService()
	teacherID := uuid.New()

	hub, _ := svc.CreateHub(context.Background(), CreateHubInput{Name: "History", TeacherID: teacherID})
	if err := svc.LeaveHub(context.Background(), hub.ID, teacherID); !errors.Is(err, usecaseErrors.ErrTeacherLeave) {
		t.Fatalf("err = %v, want ErrTeacherLeave", err)
	}
}

func TestArchiveHubTeacherOnly(t *testing.T) {
	svc, hubs, _ := newTestService()
	teacherID, otherID := uuid.New(), uuid.New()

	hub, _ := svc.CreateHub(context.Background(), CreateHubInput{Name: "Geography", TeacherID: teacherID})

	if err := svc.ArchiveHub(context.Background(), hub.ID, otherID); !errors.Is(err, usecaseErrors.ErrNotTeacher) {
		t.Fatalf("err = %v, want ErrNotTeacher", err)
	}
	if err := svc.ArchiveHub(context.Background(), hub.ID, teacherID); err != nil {
		t.Fatalf("ArchiveHub: %v", err)
	}

	stored, _ := hubs.FindByID(context.Background(), hub.ID)
	if !stored.IsArchived() {
		t.Fatal("hub should be archived")
	}

	// Archived hubs reject joins
	if _, err := svc.JoinHub(context.Background(), hub.Slug, otherID); !errors.Is(err, usecaseErrors.ErrHubArchived) {
		t.Fatalf("join archived err = %v, want ErrHubArchived", err)
	}
}

func TestUpdateHubMergesSettings(t *testing.T) {
	svc, _, _ := newTestService()
	teacherID := uuid.New()

	hub, _ := svc.CreateHub(context.Background(), CreateHubInput{Name: "Art Studio", TeacherID: teacherID})

	updated, err := svc.UpdateHub(context.Background(), hub.ID, teacherID, UpdateHubInput{
		Settings: map[string]interface{}{"allow_student_polls": true},
	})
	if err != nil {
		t.Fatalf("UpdateHub: %v", err)
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(updated.Settings, &settings); err != nil {
		t.Fatalf("settings unmarshal: %v", err)
	}
	if settings["allow_student_polls"] != true {
		t.Fatalf("allow_student_polls = %v, want true", settings["allow_student_polls"])
	}
	if _, ok := settings["enable_livestream"]; !ok {
		t.Fatal("defaults should survive a settings merge")
	}
}
