package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"terraUrbBack/internal/lifecycle"
	"terraUrbBack/internal/models"
)

type fakeComplaintStore struct {
	nextID     int
	complaints map[int]models.Complaint
	logs       map[int][]models.ComplaintLog
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{
		nextID:     1,
		complaints: make(map[int]models.Complaint),
		logs:       make(map[int][]models.ComplaintLog),
	}
}

func (f *fakeComplaintStore) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	f.complaints[c.ID] = c
	f.logs[c.ID] = append(f.logs[c.ID], models.ComplaintLog{
		ComplaintID: c.ID,
		OldStatus:   nil,
		NewStatus:   c.Status,
		ChangedBy:   c.UserID,
	})
	return c, nil
}

func (f *fakeComplaintStore) GetByID(ctx context.Context, id int) (models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return models.Complaint{}, models.ErrComplaintNotFound
	}
	return c, nil
}

func (f *fakeComplaintStore) GetAll(ctx context.Context) ([]models.Complaint, error) {
	out := make([]models.Complaint, 0, len(f.complaints))
	for _, c := range f.complaints {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeComplaintStore) UpdateContent(ctx context.Context, c models.Complaint) error {
	stored, ok := f.complaints[c.ID]
	if !ok {
		return models.ErrComplaintNotFound
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.Location = c.Location
	stored.Polygon = c.Polygon
	f.complaints[c.ID] = stored
	return nil
}

func (f *fakeComplaintStore) UpdateImages(ctx context.Context, id int, images []string) error {
	c, ok := f.complaints[id]
	if !ok {
		return models.ErrComplaintNotFound
	}
	c.Images = images
	f.complaints[id] = c
	return nil
}

func (f *fakeComplaintStore) UpdateStatus(ctx context.Context, complaintID int, newStatus string, changedBy int) error {
	c, ok := f.complaints[complaintID]
	if !ok {
		return models.ErrComplaintNotFound
	}
	old := c.Status
	c.Status = newStatus
	f.complaints[complaintID] = c
	f.logs[complaintID] = append(f.logs[complaintID], models.ComplaintLog{
		ComplaintID: complaintID,
		OldStatus:   &old,
		NewStatus:   newStatus,
		ChangedBy:   changedBy,
	})
	return nil
}

func (f *fakeComplaintStore) GetHistory(ctx context.Context, complaintID int) ([]models.ComplaintLog, error) {
	if _, ok := f.complaints[complaintID]; !ok {
		return nil, models.ErrComplaintNotFound
	}
	return f.logs[complaintID], nil
}

func (f *fakeComplaintStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.complaints[id]; !ok {
		return models.ErrComplaintNotFound
	}
	delete(f.complaints, id)
	delete(f.logs, id)
	return nil
}

func (f *fakeComplaintStore) OwnerID(ctx context.Context, id int) (int, error) {
	c, ok := f.complaints[id]
	if !ok {
		return 0, models.ErrComplaintNotFound
	}
	return c.UserID, nil
}

// fakeComplaintTagStore accepts any tag id unless known is set, in which case
// ids outside the set fail like the real store does.
type fakeComplaintTagStore struct {
	known       map[int]bool
	byComplaint map[int][]int
}

func (f *fakeComplaintTagStore) SetTags(ctx context.Context, complaintID int, tagIDs []int) error {
	if f.known != nil {
		for _, id := range tagIDs {
			if !f.known[id] {
				return models.ErrTagNotFound
			}
		}
	}
	if f.byComplaint == nil {
		f.byComplaint = make(map[int][]int)
	}
	f.byComplaint[complaintID] = tagIDs
	return nil
}

func (f *fakeComplaintTagStore) GetByComplaintID(ctx context.Context, complaintID int) ([]models.Tag, error) {
	var tags []models.Tag
	for _, id := range f.byComplaint[complaintID] {
		tags = append(tags, models.Tag{ID: id})
	}
	return tags, nil
}

type fakeCommentLister struct{}

func (fakeCommentLister) GetByComplaintID(ctx context.Context, complaintID int) ([]models.Comment, error) {
	return nil, nil
}

type fakeActivityRecorder struct {
	entries []models.ActivityLog
}

func (f *fakeActivityRecorder) Insert(ctx context.Context, l models.ActivityLog) error {
	f.entries = append(f.entries, l)
	return nil
}

func newComplaintService(store *fakeComplaintStore) *ComplaintService {
	return &ComplaintService{
		ComplaintRepo: store,
		TagRepo:       &fakeComplaintTagStore{},
		CommentRepo:   fakeCommentLister{},
		ActivityRepo:  &fakeActivityRecorder{},
	}
}

func validPolygon() []models.Coordinate {
	return []models.Coordinate{{Lat: -23.55, Lng: -46.63}, {Lat: -23.56, Lng: -46.63}, {Lat: -23.56, Lng: -46.64}}
}

func TestCreateComplaint(t *testing.T) {
	store := newFakeComplaintStore()
	svc := newComplaintService(store)
	ctx := context.Background()
	citizen := models.Actor{ID: 7, Role: models.RoleUser}

	t.Run("sets initial status and creation log", func(t *testing.T) {
		created, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "Terreno baldio",
			Description: "Mato alto e entulho",
			Location:    "Rua das Flores, 100",
			Polygon:     validPolygon(),
		})
		if err != nil {
			t.Fatalf("CreateComplaint: %v", err)
		}
		if created.Status != lifecycle.StatusUnderReview {
			t.Errorf("status = %q, want %q", created.Status, lifecycle.StatusUnderReview)
		}
		if len(created.Logs) != 1 {
			t.Fatalf("got %d log entries, want 1", len(created.Logs))
		}
		if created.Logs[0].OldStatus != nil {
			t.Errorf("creation log old_status = %v, want nil", *created.Logs[0].OldStatus)
		}
		if created.Logs[0].NewStatus != lifecycle.StatusUnderReview {
			t.Errorf("creation log new_status = %q, want %q", created.Logs[0].NewStatus, lifecycle.StatusUnderReview)
		}
	})

	t.Run("unknown tag id rejects and keeps nothing", func(t *testing.T) {
		store := newFakeComplaintStore()
		svc := newComplaintService(store)
		svc.TagRepo = &fakeComplaintTagStore{known: map[int]bool{1: true, 2: true}}

		_, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "Terreno baldio",
			Description: "Mato alto",
			Location:    "Rua das Flores, 100",
			Polygon:     validPolygon(),
			TagIDs:      []int{1, 9},
		})
		if !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
		if len(store.complaints) != 0 {
			t.Errorf("%d complaints remain after failed create, want 0", len(store.complaints))
		}
	})

	t.Run("rejects short polygon", func(t *testing.T) {
		_, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "Terreno baldio",
			Description: "Mato alto",
			Location:    "Rua das Flores, 100",
			Polygon:     []models.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}},
		})
		if !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("rejects out of range coordinate", func(t *testing.T) {
		_, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "Terreno baldio",
			Description: "Mato alto",
			Location:    "Rua das Flores, 100",
			Polygon:     []models.Coordinate{{Lat: 95, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}},
		})
		if !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("rejects blank title", func(t *testing.T) {
		_, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "   ",
			Description: "Mato alto",
			Location:    "Rua das Flores, 100",
			Polygon:     validPolygon(),
		})
		if !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	citizen := models.Actor{ID: 7, Role: models.RoleUser}
	staff := models.Actor{ID: 2, Role: models.RoleCityHall}

	newComplaint := func(t *testing.T, svc *ComplaintService) models.Complaint {
		t.Helper()
		created, err := svc.CreateComplaint(ctx, citizen, models.CreateComplaintRequest{
			Title:       "Terreno baldio",
			Description: "Mato alto",
			Location:    "Rua das Flores, 100",
			Polygon:     validPolygon(),
		})
		if err != nil {
			t.Fatalf("CreateComplaint: %v", err)
		}
		return created
	}

	t.Run("citizen cannot change status", func(t *testing.T) {
		svc := newComplaintService(newFakeComplaintStore())
		c := newComplaint(t, svc)
		if _, err := svc.ChangeStatus(ctx, citizen, c.ID, lifecycle.StatusInProgress); !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("got %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := newComplaintService(newFakeComplaintStore())
		c := newComplaint(t, svc)
		if _, err := svc.ChangeStatus(ctx, staff, c.ID, "Arquivado"); !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("history chains old to new", func(t *testing.T) {
		svc := newComplaintService(newFakeComplaintStore())
		c := newComplaint(t, svc)
		for _, status := range []string{lifecycle.StatusInProgress, lifecycle.StatusInVerification, lifecycle.StatusResolved, lifecycle.StatusReopened} {
			if _, err := svc.ChangeStatus(ctx, staff, c.ID, status); err != nil {
				t.Fatalf("ChangeStatus(%q): %v", status, err)
			}
		}
		history, err := svc.GetHistory(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetHistory: %v", err)
		}
		if len(history) != 5 {
			t.Fatalf("got %d entries, want 5", len(history))
		}
		if history[0].OldStatus != nil {
			t.Errorf("first entry old_status = %v, want nil", *history[0].OldStatus)
		}
		for i := 1; i < len(history); i++ {
			if history[i].OldStatus == nil {
				t.Fatalf("entry %d old_status is nil", i)
			}
			if *history[i].OldStatus != history[i-1].NewStatus {
				t.Errorf("entry %d old_status = %q, want %q", i, *history[i].OldStatus, history[i-1].NewStatus)
			}
		}
	})

	t.Run("same status still appends a log", func(t *testing.T) {
		svc := newComplaintService(newFakeComplaintStore())
		c := newComplaint(t, svc)
		if _, err := svc.ChangeStatus(ctx, staff, c.ID, lifecycle.StatusUnderReview); err != nil {
			t.Fatalf("ChangeStatus: %v", err)
		}
		history, err := svc.GetHistory(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetHistory: %v", err)
		}
		if len(history) != 2 {
			t.Errorf("got %d entries, want 2", len(history))
		}
	})

	t.Run("missing complaint", func(t *testing.T) {
		svc := newComplaintService(newFakeComplaintStore())
		if _, err := svc.ChangeStatus(ctx, staff, 99, lifecycle.StatusInProgress); !errors.Is(err, models.ErrComplaintNotFound) {
			t.Errorf("got %v, want ErrComplaintNotFound", err)
		}
	})

	t.Run("rejects transition from unknown stored status", func(t *testing.T) {
		store := newFakeComplaintStore()
		svc := newComplaintService(store)
		c := newComplaint(t, svc)
		stored := store.complaints[c.ID]
		stored.Status = "Arquivado"
		store.complaints[c.ID] = stored
		if _, err := svc.ChangeStatus(ctx, staff, c.ID, lifecycle.StatusInProgress); !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})
}

func TestUpdateComplaintAccess(t *testing.T) {
	ctx := context.Background()
	owner := models.Actor{ID: 7, Role: models.RoleUser}
	stranger := models.Actor{ID: 8, Role: models.RoleUser}
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}

	svc := newComplaintService(newFakeComplaintStore())
	created, err := svc.CreateComplaint(ctx, owner, models.CreateComplaintRequest{
		Title:       "Terreno baldio",
		Description: "Mato alto",
		Location:    "Rua das Flores, 100",
		Polygon:     validPolygon(),
	})
	if err != nil {
		t.Fatalf("CreateComplaint: %v", err)
	}

	req := models.UpdateComplaintRequest{
		Title:       "Terreno baldio atualizado",
		Description: "Mato alto e entulho",
		Location:    "Rua das Flores, 100",
		Polygon:     validPolygon(),
	}

	if _, err := svc.UpdateComplaint(ctx, stranger, created.ID, req); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("stranger update: got %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.UpdateComplaint(ctx, owner, created.ID, req); err != nil {
		t.Errorf("owner update: %v", err)
	}
	if _, err := svc.UpdateComplaint(ctx, admin, created.ID, req); err != nil {
		t.Errorf("admin update: %v", err)
	}

	if _, err := svc.DeleteComplaint(ctx, stranger, created.ID); !errors.Is(err, models.ErrPermissionDenied) {
		t.Errorf("stranger delete: got %v, want ErrPermissionDenied", err)
	}
	if _, err := svc.DeleteComplaint(ctx, owner, created.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestDeleteComplaintReturnsImages(t *testing.T) {
	ctx := context.Background()
	owner := models.Actor{ID: 7, Role: models.RoleUser}

	store := newFakeComplaintStore()
	svc := newComplaintService(store)
	created, err := svc.CreateComplaint(ctx, owner, models.CreateComplaintRequest{
		Title:       "Terreno baldio",
		Description: "Mato alto",
		Location:    "Rua das Flores, 100",
		Polygon:     validPolygon(),
	})
	if err != nil {
		t.Fatalf("CreateComplaint: %v", err)
	}
	urls := []string{"https://bucket/complaints/a.jpg", "https://bucket/complaints/b.jpg"}
	if _, err := svc.AttachImages(ctx, owner, created.ID, urls); err != nil {
		t.Fatalf("AttachImages: %v", err)
	}

	images, err := svc.DeleteComplaint(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("DeleteComplaint: %v", err)
	}
	if len(images) != 2 || images[0] != urls[0] || images[1] != urls[1] {
		t.Errorf("images = %v, want %v", images, urls)
	}
	if len(store.complaints) != 0 {
		t.Errorf("%d complaints remain, want 0", len(store.complaints))
	}
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}
