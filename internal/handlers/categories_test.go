package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"blogcms/internal/hierarchy"
	"blogcms/internal/models"
)

func TestCategoryCreateAndGet(t *testing.T) {
	e := newTestEnv(t)
	root := e.createCategory(t, "Engineering", nil)
	child := e.createCategory(t, "Go Tips", &root.ID)

	if child.Slug != "go-tips" {
		t.Errorf("slug: got %q, want %q", child.Slug, "go-tips")
	}
	if child.Parent == nil || child.Parent.Name != "Engineering" {
		t.Errorf("parent: got %+v, want Engineering", child.Parent)
	}
	if child.CreatedBy == nil || child.CreatedBy.Username != "admin" {
		t.Errorf("created_by: got %+v, want admin", child.CreatedBy)
	}

	rr := call(t, e.categories.Get, http.MethodGet, "/api/categories/go-tips", map[string]string{"ref": "go-tips"}, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	detail := decode[models.CategoryDetail](t, rr)
	if detail.Category.ID != child.ID {
		t.Errorf("category: got %s, want %s", detail.Category.ID, child.ID)
	}
	if len(detail.Breadcrumb) != 1 || detail.Breadcrumb[0].Slug != "engineering" {
		t.Errorf("breadcrumb: got %+v", detail.Breadcrumb)
	}

	rr = call(t, e.categories.Get, http.MethodGet, "/", map[string]string{"ref": "nope"}, nil, nil)
	wantStatus(t, rr, http.StatusNotFound)
}

func TestCategoryCreateErrors(t *testing.T) {
	e := newTestEnv(t)
	e.createCategory(t, "News", nil)
	missing := uuid.New()

	tests := []struct {
		name string
		body any
		want int
	}{
		{"duplicate slug", map[string]any{"name": "News"}, http.StatusConflict},
		{"missing name", map[string]any{"slug": "x"}, http.StatusBadRequest},
		{"unknown field", `{"name":"X","stats":{"total_posts":9}}`, http.StatusBadRequest},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
		{"missing parent", map[string]any{"name": "Y", "parent": missing.String()}, http.StatusNotFound},
		{"bad status", map[string]any{"name": "Z", "status": "archived"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := call(t, e.categories.Create, http.MethodPost, "/api/categories", nil, tt.body, e.admin)
			wantStatus(t, rr, tt.want)
		})
	}
}

func TestCategoryUpdate(t *testing.T) {
	e := newTestEnv(t)
	a := e.createCategory(t, "A", nil)
	b := e.createCategory(t, "B", &a.ID)
	c := e.createCategory(t, "C", &b.ID)

	rr := call(t, e.categories.Update, http.MethodPut, "/", map[string]string{"id": a.ID.String()},
		map[string]any{"parent": c.ID.String()}, e.admin)
	wantStatus(t, rr, http.StatusBadRequest)

	rr = call(t, e.categories.Update, http.MethodPut, "/", map[string]string{"id": c.ID.String()},
		map[string]any{"parent": nil, "color": "#fff"}, e.admin)
	wantStatus(t, rr, http.StatusOK)
	got := decode[models.Category](t, rr)
	if got.ParentID != nil {
		t.Errorf("parent_id: got %v, want nil", got.ParentID)
	}
	if got.Color != "#fff" {
		t.Errorf("color: got %q", got.Color)
	}

	rr = call(t, e.categories.Update, http.MethodPut, "/", map[string]string{"id": "not-a-uuid"}, map[string]any{}, e.admin)
	wantStatus(t, rr, http.StatusBadRequest)
}

func TestCategoryDelete(t *testing.T) {
	e := newTestEnv(t)
	cat := e.createCategory(t, "Busy", nil)
	post := e.createPost(t, "Hello", models.PostStatusDraft, &cat.ID)

	params := map[string]string{"id": cat.ID.String()}
	rr := call(t, e.categories.Delete, http.MethodDelete, "/", params, nil, e.admin)
	wantStatus(t, rr, http.StatusConflict)

	rr = call(t, e.posts.Delete, http.MethodDelete, "/", map[string]string{"id": post.ID.String()}, nil, e.admin)
	wantStatus(t, rr, http.StatusNoContent)

	rr = call(t, e.categories.Delete, http.MethodDelete, "/", params, nil, e.admin)
	wantStatus(t, rr, http.StatusNoContent)

	rr = call(t, e.categories.Delete, http.MethodDelete, "/", params, nil, e.admin)
	wantStatus(t, rr, http.StatusNotFound)
}

func TestCategoryTree(t *testing.T) {
	e := newTestEnv(t)
	full := e.createCategory(t, "Full", nil)
	e.createCategory(t, "Empty", nil)
	e.createCategory(t, "Child", &full.ID)
	e.createPost(t, "Live", models.PostStatusPublished, &full.ID)

	rr := call(t, e.categories.Tree, http.MethodGet, "/api/categories", nil, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	if roots := decode[[]models.Category](t, rr); len(roots) != 2 {
		t.Errorf("roots: got %d, want 2", len(roots))
	}

	rr = call(t, e.categories.Tree, http.MethodGet, "/api/categories?include_empty=false", nil, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	roots := decode[[]models.Category](t, rr)
	if len(roots) != 1 || roots[0].ID != full.ID {
		t.Fatalf("non-empty roots: got %+v", roots)
	}
	if len(roots[0].Subcategories) != 1 {
		t.Errorf("subcategories: got %d, want 1", len(roots[0].Subcategories))
	}
	if roots[0].Stats.TotalPosts != 1 {
		t.Errorf("total_posts: got %d, want 1", roots[0].Stats.TotalPosts)
	}

	rr = call(t, e.categories.Tree, http.MethodGet, "/api/categories?status=bogus", nil, nil, nil)
	wantStatus(t, rr, http.StatusBadRequest)

	rr = call(t, e.categories.Flat, http.MethodGet, "/api/categories/flat?roots=true", nil, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	if flat := decode[[]models.Category](t, rr); len(flat) != 2 {
		t.Errorf("flat roots: got %d, want 2", len(flat))
	}

	rr = call(t, e.categories.Flat, http.MethodGet, "/api/categories/flat?parent="+full.ID.String(), nil, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	if flat := decode[[]models.Category](t, rr); len(flat) != 1 || flat[0].Name != "Child" {
		t.Errorf("children: got %+v", flat)
	}
}

func TestCategoryPosts(t *testing.T) {
	e := newTestEnv(t)
	root := e.createCategory(t, "Root", nil)
	leaf := e.createCategory(t, "Leaf", &root.ID)
	e.createPost(t, "Top", models.PostStatusPublished, &root.ID)
	e.createPost(t, "Deep", models.PostStatusPublished, &leaf.ID)
	e.createPost(t, "Draft", models.PostStatusDraft, &leaf.ID)

	params := map[string]string{"ref": "root"}
	rr := call(t, e.categories.Posts, http.MethodGet, "/api/categories/root/posts", params, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	if got := decode[listResponse[models.Post]](t, rr); got.Total != 1 {
		t.Errorf("direct posts: got %d, want 1", got.Total)
	}

	rr = call(t, e.categories.Posts, http.MethodGet, "/api/categories/root/posts?descendants=true", params, nil, nil)
	wantStatus(t, rr, http.StatusOK)
	if got := decode[listResponse[models.Post]](t, rr); got.Total != 2 || len(got.Items) != 2 {
		t.Errorf("posts with descendants: got %+v", got)
	}
}

func TestCategoryMergeAndReorder(t *testing.T) {
	e := newTestEnv(t)
	s := e.createCategory(t, "Source", nil)
	target := e.createCategory(t, "Target", nil)
	e.createPost(t, "One", models.PostStatusPublished, &s.ID)
	e.createPost(t, "Two", models.PostStatusPublished, &target.ID)

	rr := call(t, e.categories.Merge, http.MethodPost, "/api/categories/merge", nil,
		map[string]any{"source_ids": []string{s.ID.String()}, "target_id": target.ID.String()}, e.admin)
	wantStatus(t, rr, http.StatusOK)
	res := decode[hierarchy.MergeResult](t, rr)
	if res.PostsMoved != 1 || res.Deleted != 1 || res.Target.Stats.TotalPosts != 2 {
		t.Errorf("merge result: got %+v, target stats %+v", res, res.Target.Stats)
	}

	rr = call(t, e.categories.Merge, http.MethodPost, "/api/categories/merge", nil,
		map[string]any{"source_ids": []string{uuid.NewString()}}, e.admin)
	wantStatus(t, rr, http.StatusBadRequest)

	other := e.createCategory(t, "Other", nil)
	rr = call(t, e.categories.Reorder, http.MethodPost, "/api/categories/reorder", nil,
		map[string]any{"items": []map[string]any{
			{"id": other.ID.String(), "parent_id": target.ID.String(), "order": 3},
		}}, e.admin)
	wantStatus(t, rr, http.StatusNoContent)

	rr = call(t, e.categories.Reorder, http.MethodPost, "/api/categories/reorder", nil,
		map[string]any{"items": []map[string]any{
			{"id": target.ID.String(), "parent_id": other.ID.String(), "order": 0},
		}}, e.admin)
	wantStatus(t, rr, http.StatusBadRequest)

	rr = call(t, e.categories.RefreshStats, http.MethodPost, "/", map[string]string{"id": target.ID.String()}, nil, e.admin)
	wantStatus(t, rr, http.StatusOK)
	if st := decode[models.CategoryStats](t, rr); st.TotalPosts != 2 {
		t.Errorf("stats: got %+v, want 2 posts", st)
	}

	rr = call(t, e.categories.RefreshStats, http.MethodPost, "/", map[string]string{"id": uuid.NewString()}, nil, e.admin)
	wantStatus(t, rr, http.StatusNotFound)
}
