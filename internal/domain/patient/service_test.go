package patient

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockPatientRepo struct {
	records map[int64]*Patient
	nextID  int64
}

func newMockRepo() *mockPatientRepo {
	return &mockPatientRepo{records: make(map[int64]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.records[p.ID] = &cp
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	stored, ok := m.records[p.ID]
	if !ok {
		return ErrNotFound
	}
	*stored = *p
	stored.UpdatedAt = time.Now()
	*p = *stored
	return nil
}

func (m *mockPatientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, f ListFilter, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for id := int64(1); id <= m.nextID; id++ {
		p, ok := m.records[id]
		if !ok {
			continue
		}
		if f.Name != "" {
			needle := strings.ToLower(f.Name)
			if !strings.Contains(strings.ToLower(p.FirstName), needle) &&
				!strings.Contains(strings.ToLower(p.LastName), needle) {
				continue
			}
		}
		if f.Email != "" && (p.Email == nil || *p.Email != f.Email) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	var ve *ValidationError
	if err := svc.Create(ctx, &Patient{LastName: "Singh"}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for missing first name, got %v", err)
	}
	if err := svc.Create(ctx, &Patient{FirstName: "Aisha", LastName: "  "}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for blank last name, got %v", err)
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	p := &Patient{FirstName: "Aisha", LastName: "Singh"}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FirstName != "Aisha" {
		t.Errorf("unexpected patient: %+v", got)
	}

	got.LastName = "Singh-Patel"
	if err := svc.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := svc.Get(ctx, p.ID)
	if updated.LastName != "Singh-Patel" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestList_NameFilter(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	for _, p := range []*Patient{
		{FirstName: "Aisha", LastName: "Singh"},
		{FirstName: "Ben", LastName: "Singler"},
		{FirstName: "Carla", LastName: "Moreno"},
	} {
		if err := svc.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, total, err := svc.List(ctx, ListFilter{Name: "sing"}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 matches, got total=%d len=%d", total, len(items))
	}
}
