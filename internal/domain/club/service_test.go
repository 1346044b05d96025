package club

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"
)

type pair struct {
	userID int64
	clubID int64
}

type fakeClubRepo struct {
	clubs       map[int64]*Club
	memberships map[pair]*Membership
	likes       map[pair]bool
	nextClubID  int64
	nextMemID   int64
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{
		clubs:       make(map[int64]*Club),
		memberships: make(map[pair]*Membership),
		likes:       make(map[pair]bool),
	}
}

func (r *fakeClubRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeClubRepo) GetClub(ctx context.Context, id int64) (*Club, error) {
	c, ok := r.clubs[id]
	if !ok {
		return nil, ErrClubNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeClubRepo) ListClubs(ctx context.Context, filter ListFilter, limit int) ([]Club, error) {
	var result []Club
	for _, c := range r.clubs {
		if filter.CursorID > 0 && c.ID >= filter.CursorID {
			continue
		}
		if filter.Category1ID != nil && (c.Category1ID == nil || *c.Category1ID != *filter.Category1ID) {
			continue
		}
		if filter.Category2ID != nil && (c.Category2ID == nil || *c.Category2ID != *filter.Category2ID) {
			continue
		}
		if filter.Keyword != "" && !matchesKeyword(c, filter.Keyword) {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// matchesKeyword mirrors the case-insensitive substring match the
// database performs over name and description.
func matchesKeyword(c *Club, keyword string) bool {
	keyword = strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(c.Name), keyword) ||
		strings.Contains(strings.ToLower(c.Description), keyword)
}

func (r *fakeClubRepo) CreateClub(ctx context.Context, c *Club) error {
	r.nextClubID++
	c.ID = r.nextClubID
	copied := *c
	r.clubs[c.ID] = &copied
	return nil
}

func (r *fakeClubRepo) UpdateClubFields(ctx context.Context, clubID int64, fields map[string]interface{}) error {
	c, ok := r.clubs[clubID]
	if !ok {
		return ErrClubNotFound
	}
	if name, ok := fields["name"].(string); ok {
		c.Name = name
	}
	if description, ok := fields["description"].(string); ok {
		c.Description = description
	}
	if url, ok := fields["thumbnail_url"].(string); ok {
		c.ThumbnailURL = url
	}
	return nil
}

func (r *fakeClubRepo) CountMembers(ctx context.Context, clubID int64) (int64, error) {
	var count int64
	for _, m := range r.memberships {
		if m.ClubID == clubID && m.ApplyStatus == StatusApproved {
			count++
		}
	}
	return count, nil
}

func (r *fakeClubRepo) CountLikes(ctx context.Context, clubID int64) (int64, error) {
	var count int64
	for p, present := range r.likes {
		if present && p.clubID == clubID {
			count++
		}
	}
	return count, nil
}

func (r *fakeClubRepo) GetMembership(ctx context.Context, userID, clubID int64) (*Membership, error) {
	m, ok := r.memberships[pair{userID, clubID}]
	if !ok {
		return nil, ErrNoSuchMembership
	}
	copied := *m
	return &copied, nil
}

func (r *fakeClubRepo) CreateMembership(ctx context.Context, m *Membership) error {
	key := pair{m.UserID, m.ClubID}
	if _, exists := r.memberships[key]; exists {
		return errors.New("unique constraint violation")
	}
	r.nextMemID++
	m.ID = r.nextMemID
	copied := *m
	r.memberships[key] = &copied
	return nil
}

func (r *fakeClubRepo) SaveMembership(ctx context.Context, m *Membership) error {
	copied := *m
	r.memberships[pair{m.UserID, m.ClubID}] = &copied
	return nil
}

func (r *fakeClubRepo) HasLike(ctx context.Context, userID, clubID int64) (bool, error) {
	return r.likes[pair{userID, clubID}], nil
}

func (r *fakeClubRepo) CreateLike(ctx context.Context, like *Like) error {
	r.likes[pair{like.UserID, like.ClubID}] = true
	return nil
}

func (r *fakeClubRepo) DeleteLike(ctx context.Context, userID, clubID int64) error {
	delete(r.likes, pair{userID, clubID})
	return nil
}

func (r *fakeClubRepo) addClub(id int64, name string) {
	r.clubs[id] = &Club{ID: id, Name: name, CreatorID: 1}
	if id > r.nextClubID {
		r.nextClubID = id
	}
}

func (r *fakeClubRepo) addMembership(userID, clubID int64, status ApplyStatus, role *Role) {
	r.nextMemID++
	r.memberships[pair{userID, clubID}] = &Membership{
		ID:          r.nextMemID,
		UserID:      userID,
		ClubID:      clubID,
		ApplyStatus: status,
		Role:        role,
		ApplyDate:   time.Now().UTC(),
	}
}

func rolePtr(r Role) *Role { return &r }

func TestCreateClubMakesCreatorOwner(t *testing.T) {
	repo := newFakeClubRepo()
	svc := NewService(repo)

	result, err := svc.CreateClub(context.Background(), 7, CreateClubInput{Name: "  Hiking Crew  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Name != "Hiking Crew" {
		t.Fatalf("expected trimmed name, got %q", result.Name)
	}
	if result.CreatorID != 7 {
		t.Fatalf("expected creator 7, got %d", result.CreatorID)
	}

	m, ok := repo.memberships[pair{7, result.ID}]
	if !ok {
		t.Fatalf("expected creator membership")
	}
	if m.ApplyStatus != StatusApproved {
		t.Fatalf("expected approved status, got %q", m.ApplyStatus)
	}
	if m.Role == nil || *m.Role != RoleOwner {
		t.Fatalf("expected owner role, got %v", m.Role)
	}
	if m.ApproveDate == nil {
		t.Fatalf("expected approve date set")
	}
}

func TestApplyCreatesAppliedMembership(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	svc := NewService(repo)

	result, err := svc.Apply(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ApplyStatus != StatusApplied {
		t.Fatalf("expected applied status, got %q", result.ApplyStatus)
	}
	if result.ApplyDate.IsZero() {
		t.Fatalf("expected apply date set")
	}
	if result.Role != nil {
		t.Fatalf("expected no role before approval, got %v", *result.Role)
	}
}

func TestApplyTwiceFails(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	svc := NewService(repo)

	if _, err := svc.Apply(context.Background(), 5, 1); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if _, err := svc.Apply(context.Background(), 5, 1); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplyAfterRejectionFails(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(5, 1, StatusRejected, nil)
	svc := NewService(repo)

	if _, err := svc.Apply(context.Background(), 5, 1); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied after rejection, got %v", err)
	}
}

func TestApplyClubNotFound(t *testing.T) {
	svc := NewService(newFakeClubRepo())
	if _, err := svc.Apply(context.Background(), 5, 99); !errors.Is(err, ErrClubNotFound) {
		t.Fatalf("expected ErrClubNotFound, got %v", err)
	}
}

func TestApproveTransitionsToApproved(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleManager))
	repo.addMembership(5, 1, StatusApplied, nil)
	svc := NewService(repo)

	result, err := svc.Approve(context.Background(), 2, 5, 1, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ApplyStatus != StatusApproved {
		t.Fatalf("expected approved, got %q", result.ApplyStatus)
	}
	if result.ApproveDate == nil {
		t.Fatalf("expected approve date set")
	}
	if result.Role == nil || *result.Role != RoleMember {
		t.Fatalf("expected default member role, got %v", result.Role)
	}
}

func TestApproveWithExplicitRole(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleOwner))
	repo.addMembership(5, 1, StatusApplied, nil)
	svc := NewService(repo)

	result, err := svc.Approve(context.Background(), 2, 5, 1, rolePtr(RoleManager))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Role == nil || *result.Role != RoleManager {
		t.Fatalf("expected manager role, got %v", result.Role)
	}
}

func TestApproveRequiresPrivilegedApprover(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(3, 1, StatusApproved, rolePtr(RoleMember))
	repo.addMembership(5, 1, StatusApplied, nil)
	svc := NewService(repo)

	if _, err := svc.Approve(context.Background(), 3, 5, 1, nil); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for plain member, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), 9, 5, 1, nil); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for outsider, got %v", err)
	}
}

func TestApproveWithoutApplicationFails(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleOwner))
	repo.addMembership(6, 1, StatusApproved, rolePtr(RoleMember))
	svc := NewService(repo)

	if _, err := svc.Approve(context.Background(), 2, 5, 1, nil); !errors.Is(err, ErrNoSuchApplication) {
		t.Fatalf("expected ErrNoSuchApplication for missing row, got %v", err)
	}
	if _, err := svc.Approve(context.Background(), 2, 6, 1, nil); !errors.Is(err, ErrNoSuchApplication) {
		t.Fatalf("expected ErrNoSuchApplication for already approved, got %v", err)
	}
}

func TestAllocateRoleRequiresPrivilegedCaller(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(3, 1, StatusApproved, rolePtr(RoleMember))
	repo.addMembership(5, 1, StatusApproved, rolePtr(RoleMember))
	svc := NewService(repo)

	if _, err := svc.AllocateRole(context.Background(), 3, 1, 5, RoleManager); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestAllocateRoleUpdatesRoleOnly(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleOwner))
	repo.addMembership(5, 1, StatusApplied, nil)
	svc := NewService(repo)

	result, err := svc.AllocateRole(context.Background(), 2, 1, 5, RoleManager)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Role == nil || *result.Role != RoleManager {
		t.Fatalf("expected manager role, got %v", result.Role)
	}
	if result.ApplyStatus != StatusApplied {
		t.Fatalf("expected apply status untouched, got %q", result.ApplyStatus)
	}
}

func TestAllocateRoleNoMembership(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleOwner))
	svc := NewService(repo)

	if _, err := svc.AllocateRole(context.Background(), 2, 1, 5, RoleMember); !errors.Is(err, ErrNoSuchMembership) {
		t.Fatalf("expected ErrNoSuchMembership, got %v", err)
	}
}

func TestAllocateRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeClubRepo())
	if _, err := svc.AllocateRole(context.Background(), 2, 1, 5, Role("president")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	svc := NewService(repo)

	liked, err := svc.ToggleLike(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Fatalf("expected liked after first toggle")
	}

	liked, err = svc.ToggleLike(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Fatalf("expected unliked after second toggle")
	}
	if repo.likes[pair{5, 1}] {
		t.Fatalf("expected like row removed")
	}
}

func TestGetRoleNoRelationship(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	svc := NewService(repo)

	membership, err := svc.GetRole(context.Background(), 5, 1)
	if err != nil {
		t.Fatalf("expected no error for absent membership, got %v", err)
	}
	if membership != nil {
		t.Fatalf("expected nil membership, got %+v", membership)
	}
}

func TestListClubsCursorPage(t *testing.T) {
	repo := newFakeClubRepo()
	for id := int64(1); id <= 20; id++ {
		repo.addClub(id, "Club")
	}
	svc := NewService(repo)

	page, err := svc.ListClubs(context.Background(), ListFilter{CursorID: 11, PageSize: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []int64{10, 9, 8, 7, 6}
	if len(page.Clubs) != len(want) {
		t.Fatalf("expected %d clubs, got %d", len(want), len(page.Clubs))
	}
	for i, id := range want {
		if page.Clubs[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, page.Clubs[i].ID)
		}
	}
	if !page.HasNext {
		t.Fatalf("expected more pages")
	}
	if page.NextCursor != 6 {
		t.Fatalf("expected next cursor 6, got %d", page.NextCursor)
	}

	// Newer inserts sit above the cursor window and must not shift the page.
	repo.addClub(42, "Newcomer")
	again, err := svc.ListClubs(context.Background(), ListFilter{CursorID: 11, PageSize: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for i, id := range want {
		if again.Clubs[i].ID != id {
			t.Fatalf("after insert, position %d: expected id %d, got %d", i, id, again.Clubs[i].ID)
		}
	}
}

func TestListClubsLastPage(t *testing.T) {
	repo := newFakeClubRepo()
	for id := int64(1); id <= 3; id++ {
		repo.addClub(id, "Club")
	}
	svc := NewService(repo)

	page, err := svc.ListClubs(context.Background(), ListFilter{PageSize: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(page.Clubs) != 3 {
		t.Fatalf("expected 3 clubs, got %d", len(page.Clubs))
	}
	if page.HasNext {
		t.Fatalf("expected no further pages")
	}
	if page.NextCursor != 0 {
		t.Fatalf("expected zero next cursor, got %d", page.NextCursor)
	}
}

func TestListClubsKeywordSearch(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess Masters")
	repo.addClub(2, "Hiking Crew")
	repo.addClub(3, "Book Circle")
	repo.clubs[3].Description = "weekly chess puzzles over coffee"
	svc := NewService(repo)

	page, err := svc.ListClubs(context.Background(), ListFilter{Keyword: "CHESS", PageSize: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Matches in name or description, newest first.
	want := []int64{3, 1}
	if len(page.Clubs) != len(want) {
		t.Fatalf("expected %d clubs, got %d", len(want), len(page.Clubs))
	}
	for i, id := range want {
		if page.Clubs[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, page.Clubs[i].ID)
		}
	}
	if page.HasNext {
		t.Fatalf("expected no further pages")
	}

	empty, err := svc.ListClubs(context.Background(), ListFilter{Keyword: "rowing", PageSize: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(empty.Clubs) != 0 {
		t.Fatalf("expected no matches, got %d", len(empty.Clubs))
	}
}

func TestGetClubCounts(t *testing.T) {
	repo := newFakeClubRepo()
	repo.addClub(1, "Chess")
	repo.addMembership(2, 1, StatusApproved, rolePtr(RoleOwner))
	repo.addMembership(3, 1, StatusApplied, nil)
	repo.likes[pair{2, 1}] = true
	svc := NewService(repo)

	detail, err := svc.GetClub(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.MemberCount != 1 {
		t.Fatalf("expected 1 approved member, got %d", detail.MemberCount)
	}
	if detail.LikeCount != 1 {
		t.Fatalf("expected 1 like, got %d", detail.LikeCount)
	}
}
