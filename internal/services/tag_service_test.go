package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"terraUrbBack/internal/models"
)

type fakeTagStore struct {
	nextID       int
	tags         map[int]models.Tag
	associations map[int]map[int]struct{} // complaintID -> tagID set
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{
		nextID:       1,
		tags:         make(map[int]models.Tag),
		associations: make(map[int]map[int]struct{}),
	}
}

func (f *fakeTagStore) Create(ctx context.Context, name string) (models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tag := range f.tags {
		if tag.Name == name {
			return models.Tag{}, models.ErrDuplicateTagName
		}
	}
	tag := models.Tag{ID: f.nextID, Name: name}
	f.nextID++
	f.tags[tag.ID] = tag
	return tag, nil
}

func (f *fakeTagStore) Rename(ctx context.Context, id int, name string) (models.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return models.Tag{}, models.ErrTagNotFound
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for otherID, other := range f.tags {
		if otherID != id && other.Name == name {
			return models.Tag{}, models.ErrDuplicateTagName
		}
	}
	tag.Name = name
	f.tags[id] = tag
	return tag, nil
}

func (f *fakeTagStore) Delete(ctx context.Context, id int) error {
	if _, ok := f.tags[id]; !ok {
		return models.ErrTagNotFound
	}
	delete(f.tags, id)
	for _, set := range f.associations {
		delete(set, id)
	}
	return nil
}

func (f *fakeTagStore) GetByID(ctx context.Context, id int) (models.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return models.Tag{}, models.ErrTagNotFound
	}
	return tag, nil
}

func (f *fakeTagStore) GetAll(ctx context.Context) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(f.tags))
	for _, tag := range f.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTagStore) GetByComplaintID(ctx context.Context, complaintID int) ([]models.Tag, error) {
	var out []models.Tag
	for id := range f.associations[complaintID] {
		out = append(out, f.tags[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTagStore) SetTags(ctx context.Context, complaintID int, tagIDs []int) error {
	for _, id := range tagIDs {
		if _, ok := f.tags[id]; !ok {
			return models.ErrTagNotFound
		}
	}
	set := make(map[int]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		set[id] = struct{}{}
	}
	f.associations[complaintID] = set
	return nil
}

func (f *fakeTagStore) AddTags(ctx context.Context, complaintID int, tagIDs []int) error {
	if f.associations[complaintID] == nil {
		f.associations[complaintID] = make(map[int]struct{})
	}
	for _, id := range tagIDs {
		if _, ok := f.tags[id]; !ok {
			return models.ErrTagNotFound
		}
		f.associations[complaintID][id] = struct{}{}
	}
	return nil
}

func (f *fakeTagStore) RemoveTags(ctx context.Context, complaintID int, tagIDs []int) error {
	for _, id := range tagIDs {
		delete(f.associations[complaintID], id)
	}
	return nil
}

type fakeOwnerStore struct {
	owners map[int]int
}

func (f *fakeOwnerStore) OwnerID(ctx context.Context, id int) (int, error) {
	owner, ok := f.owners[id]
	if !ok {
		return 0, models.ErrComplaintNotFound
	}
	return owner, nil
}

func newTagService() (*TagService, *fakeTagStore) {
	store := newFakeTagStore()
	svc := &TagService{
		TagRepo:       store,
		ComplaintRepo: &fakeOwnerStore{owners: map[int]int{1: 7}},
	}
	return svc, store
}

func TestTagCRUD(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}
	citizen := models.Actor{ID: 7, Role: models.RoleUser}

	t.Run("only admin manages tags", func(t *testing.T) {
		svc, _ := newTagService()
		if _, err := svc.CreateTag(ctx, citizen, "lixo"); !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("create: got %v, want ErrPermissionDenied", err)
		}
		if _, err := svc.RenameTag(ctx, citizen, 1, "lixo"); !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("rename: got %v, want ErrPermissionDenied", err)
		}
		if err := svc.DeleteTag(ctx, citizen, 1); !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("delete: got %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		svc, _ := newTagService()
		if _, err := svc.CreateTag(ctx, admin, "Lixo"); err != nil {
			t.Fatalf("CreateTag: %v", err)
		}
		if _, err := svc.CreateTag(ctx, admin, "lixo"); !errors.Is(err, models.ErrDuplicateTagName) {
			t.Errorf("got %v, want ErrDuplicateTagName", err)
		}
	})

	t.Run("blank name rejected", func(t *testing.T) {
		svc, _ := newTagService()
		if _, err := svc.CreateTag(ctx, admin, "   "); !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("delete detaches associations", func(t *testing.T) {
		svc, store := newTagService()
		tag, err := svc.CreateTag(ctx, admin, "entulho")
		if err != nil {
			t.Fatalf("CreateTag: %v", err)
		}
		if err := svc.SetTags(ctx, admin, 1, []int{tag.ID}); err != nil {
			t.Fatalf("SetTags: %v", err)
		}
		if err := svc.DeleteTag(ctx, admin, tag.ID); err != nil {
			t.Fatalf("DeleteTag: %v", err)
		}
		attached, err := store.GetByComplaintID(ctx, 1)
		if err != nil {
			t.Fatalf("GetByComplaintID: %v", err)
		}
		if len(attached) != 0 {
			t.Errorf("got %d attached tags, want 0", len(attached))
		}
	})
}

func TestSetTags(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}
	owner := models.Actor{ID: 7, Role: models.RoleUser}
	stranger := models.Actor{ID: 9, Role: models.RoleUser}

	seed := func(t *testing.T, svc *TagService, names ...string) []int {
		t.Helper()
		ids := make([]int, 0, len(names))
		for _, name := range names {
			tag, err := svc.CreateTag(ctx, admin, name)
			if err != nil {
				t.Fatalf("CreateTag(%q): %v", name, err)
			}
			ids = append(ids, tag.ID)
		}
		return ids
	}

	t.Run("duplicate ids collapse", func(t *testing.T) {
		svc, store := newTagService()
		ids := seed(t, svc, "lixo", "entulho")
		if err := svc.SetTags(ctx, owner, 1, []int{ids[0], ids[1], ids[0]}); err != nil {
			t.Fatalf("SetTags: %v", err)
		}
		attached, _ := store.GetByComplaintID(ctx, 1)
		if len(attached) != 2 {
			t.Errorf("got %d attached tags, want 2", len(attached))
		}
	})

	t.Run("replaces previous set", func(t *testing.T) {
		svc, store := newTagService()
		ids := seed(t, svc, "lixo", "entulho", "mato")
		if err := svc.SetTags(ctx, owner, 1, []int{ids[0], ids[1]}); err != nil {
			t.Fatalf("SetTags: %v", err)
		}
		if err := svc.SetTags(ctx, owner, 1, []int{ids[2]}); err != nil {
			t.Fatalf("SetTags: %v", err)
		}
		attached, _ := store.GetByComplaintID(ctx, 1)
		if len(attached) != 1 || attached[0].ID != ids[2] {
			t.Errorf("attached = %v, want only tag %d", attached, ids[2])
		}
	})

	t.Run("unknown tag id is input feedback", func(t *testing.T) {
		svc, _ := newTagService()
		if err := svc.SetTags(ctx, owner, 1, []int{42}); !models.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("stranger denied", func(t *testing.T) {
		svc, _ := newTagService()
		ids := seed(t, svc, "lixo")
		if err := svc.SetTags(ctx, stranger, 1, ids); !errors.Is(err, models.ErrPermissionDenied) {
			t.Errorf("got %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("missing complaint", func(t *testing.T) {
		svc, _ := newTagService()
		ids := seed(t, svc, "lixo")
		if err := svc.SetTags(ctx, owner, 99, ids); !errors.Is(err, models.ErrComplaintNotFound) {
			t.Errorf("got %v, want ErrComplaintNotFound", err)
		}
	})

	t.Run("add and remove", func(t *testing.T) {
		svc, store := newTagService()
		ids := seed(t, svc, "lixo", "entulho")
		if err := svc.AddTags(ctx, owner, 1, []int{ids[0]}); err != nil {
			t.Fatalf("AddTags: %v", err)
		}
		if err := svc.AddTags(ctx, owner, 1, []int{ids[0], ids[1]}); err != nil {
			t.Fatalf("AddTags again: %v", err)
		}
		if err := svc.RemoveTags(ctx, owner, 1, []int{ids[0]}); err != nil {
			t.Fatalf("RemoveTags: %v", err)
		}
		attached, _ := store.GetByComplaintID(ctx, 1)
		if len(attached) != 1 || attached[0].ID != ids[1] {
			t.Errorf("attached = %v, want only tag %d", attached, ids[1])
		}
	})
}
