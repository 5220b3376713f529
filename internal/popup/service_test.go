// AngelaMos | 2026
// service_test.go

package popup

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

type fakeRepo struct {
	popups map[int64]Popup
	nextID int64
}

func newFakeRepo(popups ...Popup) *fakeRepo {
	r := &fakeRepo{popups: map[int64]Popup{}}
	for _, p := range popups {
		r.popups[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakeRepo) ListVisible(_ context.Context, now time.Time) ([]Popup, error) {
	out := []Popup{}
	for _, p := range r.popups {
		if p.VisibleAt(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(_ context.Context) ([]Popup, error) {
	out := []Popup{}
	for _, p := range r.popups {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Popup, error) {
	p, ok := r.popups[id]
	if !ok {
		return nil, fmt.Errorf("get popup: %w", core.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeRepo) Create(_ context.Context, p *Popup) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.popups[p.ID] = *p
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p *Popup) error {
	if _, ok := r.popups[p.ID]; !ok {
		return fmt.Errorf("update popup: %w", core.ErrNotFound)
	}
	r.popups[p.ID] = *p
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.popups[id]; !ok {
		return fmt.Errorf("delete popup: %w", core.ErrNotFound)
	}
	delete(r.popups, id)
	return nil
}

var fixedNow = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestVisibleAt(t *testing.T) {
	p := Popup{
		IsActive: true,
		StartAt:  fixedNow.Add(-time.Hour),
		EndAt:    fixedNow.Add(time.Hour),
	}

	assert.True(t, p.VisibleAt(fixedNow))
	assert.True(t, p.VisibleAt(p.StartAt))
	assert.True(t, p.VisibleAt(p.EndAt))
	assert.False(t, p.VisibleAt(p.EndAt.Add(time.Second)))

	p.IsActive = false
	assert.False(t, p.VisibleAt(fixedNow))
}

func TestListActiveUsesClock(t *testing.T) {
	repo := newFakeRepo(
		Popup{ID: 1, IsActive: true, StartAt: fixedNow.Add(-time.Hour), EndAt: fixedNow.Add(time.Hour)},
		Popup{ID: 2, IsActive: true, StartAt: fixedNow.Add(time.Hour), EndAt: fixedNow.Add(2 * time.Hour)},
		Popup{ID: 3, IsActive: false, StartAt: fixedNow.Add(-time.Hour), EndAt: fixedNow.Add(time.Hour)},
	)

	popups, err := newTestService(repo).ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, popups, 1)
	assert.Equal(t, int64(1), popups[0].ID)
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateRequest{
		Title:   "Summer camp",
		StartAt: fixedNow,
		EndAt:   fixedNow,
	})

	require.ErrorIs(t, err, ErrInvalidWindow)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDefaultsActive(t *testing.T) {
	svc := newTestService(newFakeRepo())

	p, err := svc.Create(context.Background(), CreateRequest{
		Title:   "Summer camp",
		StartAt: fixedNow,
		EndAt:   fixedNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.True(t, p.IsActive)
	assert.Equal(t, int64(1), p.ID)
}

func TestUpdateValidatesMergedWindow(t *testing.T) {
	repo := newFakeRepo(Popup{ID: 1, IsActive: true, StartAt: fixedNow, EndAt: fixedNow.Add(time.Hour)})
	svc := newTestService(repo)

	before := fixedNow.Add(-time.Hour)
	_, err := svc.Update(context.Background(), 1, UpdateRequest{EndAt: &before})
	require.ErrorIs(t, err, ErrInvalidWindow)
	assert.Equal(t, fixedNow.Add(time.Hour), repo.popups[1].EndAt)

	off := false
	p, err := svc.Update(context.Background(), 1, UpdateRequest{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, p.IsActive)
}
