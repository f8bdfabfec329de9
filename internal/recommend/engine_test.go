package recommend_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/model"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/recommend"
	"github.com/Jobstacktalentsolutions/Jobstack-backend-sub000/internal/store"
)

type fakeData struct {
	candidates map[string]model.Candidate
	jobs       []model.Job
	applied    map[string]map[string]struct{}
	err        error
}

func (f *fakeData) GetCandidateWithSkills(_ context.Context, id string) (model.Candidate, error) {
	if f.err != nil {
		return model.Candidate{}, f.err
	}
	c, ok := f.candidates[id]
	if !ok {
		return model.Candidate{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeData) GetPublishedJobs(_ context.Context) ([]model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func (f *fakeData) AppliedJobIDs(_ context.Context, candidateID string) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	if ids, ok := f.applied[candidateID]; ok {
		return ids, nil
	}
	return map[string]struct{}{}, nil
}

func newEngine(f *fakeData) *recommend.Engine {
	return recommend.NewEngine(f, f, f, nil, zap.NewNop())
}

func publishedJob(id string, createdAt time.Time) model.Job {
	return model.Job{
		ID:        id,
		Title:     "Any Role",
		Status:    model.JobPublished,
		CreatedAt: createdAt,
	}
}

func TestRecommend_CandidateNotFound(t *testing.T) {
	engine := newEngine(&fakeData{candidates: map[string]model.Candidate{}})
	_, err := engine.Recommend(context.Background(), "missing", 1, 10)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Recommend for unknown candidate: err = %v, want ErrNotFound", err)
	}
}

func TestRecommend_FiltersIneligibleJobs(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	expired := publishedJob("expired", now)
	expired.Deadline = &past
	open := publishedJob("open", now)
	open.Deadline = &future
	draft := publishedJob("draft", now)
	draft.Status = model.JobDraft

	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand"}},
		jobs:       []model.Job{expired, open, draft, publishedJob("applied", now)},
		applied:    map[string]map[string]struct{}{"cand": {"applied": {}}},
	}

	page, err := newEngine(f).Recommend(context.Background(), "cand", 1, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("Total = %d, want 1 (only the open job)", page.Total)
	}
	if page.Items[0].Job.ID != "open" {
		t.Errorf("remaining job = %s, want open", page.Items[0].Job.ID)
	}
}

// Jobs whose scores differ by less than 0.01 must be ordered newest first.
func TestRecommend_TieBreakByRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := publishedJob("older", base)
	newer := publishedJob("newer", base.Add(time.Hour))

	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand"}},
		jobs:       []model.Job{older, newer},
	}

	page, err := newEngine(f).Recommend(context.Background(), "cand", 1, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(page.Items))
	}
	if page.Items[0].Job.ID != "newer" {
		t.Errorf("tied jobs ordered %s, %s; want newer first",
			page.Items[0].Job.ID, page.Items[1].Job.ID)
	}
}

func TestRecommend_HigherScoreBeatsRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// The older job matches the candidate's title; the newer one does not.
	strong := publishedJob("strong", base)
	strong.Title = "Accountant"
	weak := publishedJob("weak", base.Add(time.Hour))
	weak.Title = "Zookeeper"

	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand", JobTitle: "Accountant"}},
		jobs:       []model.Job{weak, strong},
	}

	page, err := newEngine(f).Recommend(context.Background(), "cand", 1, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if page.Items[0].Job.ID != "strong" {
		t.Errorf("top job = %s, want strong (score beats recency)", page.Items[0].Job.ID)
	}
}

func TestRecommend_PaginationAfterFullRanking(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var jobs []model.Job
	for i := 0; i < 5; i++ {
		jobs = append(jobs, publishedJob(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour)))
	}
	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand"}},
		jobs:       jobs,
	}
	engine := newEngine(f)

	page2, err := engine.Recommend(context.Background(), "cand", 2, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if page2.Total != 5 {
		t.Errorf("Total = %d, want 5", page2.Total)
	}
	if len(page2.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(page2.Items))
	}

	// A page past the end is empty but reports the full total.
	page9, err := engine.Recommend(context.Background(), "cand", 9, 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(page9.Items) != 0 || page9.Total != 5 {
		t.Errorf("past-the-end page: items=%d total=%d, want 0 and 5", len(page9.Items), page9.Total)
	}
}

func TestRecommend_ClampsPagination(t *testing.T) {
	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand"}},
	}
	page, err := newEngine(f).Recommend(context.Background(), "cand", -3, 1000)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if page.Page != 1 || page.Limit != 100 {
		t.Errorf("clamped page/limit = %d/%d, want 1/100", page.Page, page.Limit)
	}
}

// Recomputing on an unchanged snapshot must reproduce scores and order.
func TestRecommend_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	future := base.Add(1000 * time.Hour)
	jobs := []model.Job{}
	titles := []string{"Engineer", "Driver", "Accountant", "Nurse"}
	for i, title := range titles {
		j := publishedJob(title, base.Add(time.Duration(i)*time.Hour))
		j.Title = title
		j.Deadline = &future
		jobs = append(jobs, j)
	}
	f := &fakeData{
		candidates: map[string]model.Candidate{"cand": {ID: "cand", JobTitle: "Engineer"}},
		jobs:       jobs,
	}
	engine := newEngine(f)

	first, err := engine.Recommend(context.Background(), "cand", 1, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	second, err := engine.Recommend(context.Background(), "cand", 1, 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two computations over the same snapshot differ")
	}
}
