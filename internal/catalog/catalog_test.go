package catalog

import (
	"context"
	"fmt"
	"testing"

	"portfolio-app/database"
	"portfolio-app/internal/domain/portfolio"
	"portfolio-app/internal/ingest"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return New(db)
}

func mustProject(t *testing.T, r *Repository, p portfolio.Project) *portfolio.Project {
	t.Helper()
	require.NoError(t, r.InsertProject(context.Background(), &p))
	return &p
}

func uploads(slug string, n int) []ingest.Result {
	out := make([]ingest.Result, n)
	for i := range out {
		key := fmt.Sprintf("projects/%s/%d.jpg", slug, i)
		out[i] = ingest.Result{
			PublicURL:   "https://cdn.example.com/" + key,
			StoragePath: key,
			Width:       1200,
			Height:      800,
			AspectRatio: 1.5,
			Format:      "jpeg",
			FileSize:    1024,
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func TestInsertProjectDerivesUniqueSlug(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first := mustProject(t, r, portfolio.Project{Title: "Café Rebrand"})
	second := mustProject(t, r, portfolio.Project{Title: "Cafe rebrand!"})
	third := mustProject(t, r, portfolio.Project{Title: "café REBRAND"})

	assert.Equal(t, "cafe-rebrand", first.Slug)
	assert.Equal(t, "cafe-rebrand-2", second.Slug)
	assert.Equal(t, "cafe-rebrand-3", third.Slug)
	assert.Equal(t, portfolio.CategoryInterfaceDesign, first.Category)
	assert.NotEmpty(t, first.ID)

	got, err := r.GetProjectBySlug(ctx, "cafe-rebrand-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestInsertProjectValidation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, r.InsertProject(ctx, &portfolio.Project{Title: "   "}), ErrTitleRequired)
	assert.ErrorIs(t, r.InsertProject(ctx, &portfolio.Project{Title: "x", Category: "paintings"}), ErrInvalidCategory)
	assert.ErrorIs(t, r.InsertProject(ctx, &portfolio.Project{Title: "x", Slug: "Not A Slug"}), ErrInvalidSlug)
}

func TestUpdateProjectKeepsSlug(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Original", Published: true})

	title := "Renamed"
	client := "Acme"
	year := 2024
	tags := []string{"branding", "web"}
	updated, err := r.UpdateProject(ctx, p.ID, ProjectPatch{
		Title:     &title,
		Client:    &client,
		Year:      &year,
		Tags:      &tags,
		Published: boolPtr(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "original", updated.Slug)
	assert.False(t, updated.Published)
	require.NotNil(t, updated.Client)
	assert.Equal(t, "Acme", *updated.Client)
	assert.Equal(t, []string{"branding", "web"}, []string(updated.Tags))

	empty := ""
	zero := 0
	cleared, err := r.UpdateProject(ctx, p.ID, ProjectPatch{Client: &empty, Year: &zero})
	require.NoError(t, err)
	assert.Nil(t, cleared.Client)
	assert.Nil(t, cleared.Year)

	_, err = r.UpdateProject(ctx, "00000000-0000-0000-0000-000000000000", ProjectPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsFilters(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	mustProject(t, r, portfolio.Project{Title: "UI one", Category: portfolio.CategoryInterfaceDesign, Published: true, OrderIndex: 2})
	mustProject(t, r, portfolio.Project{Title: "Sketches", Category: portfolio.CategoryDrawings, Published: true, Featured: true, OrderIndex: 1})
	mustProject(t, r, portfolio.Project{Title: "Everything", Category: portfolio.CategoryAll, Published: true, OrderIndex: 0})
	mustProject(t, r, portfolio.Project{Title: "Draft", Category: portfolio.CategoryDrawings})

	titles := func(ps []portfolio.Project) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Title
		}
		return out
	}

	all, err := r.ListProjects(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	published, err := r.ListProjects(ctx, Filter{Published: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Everything", "Sketches", "UI one"}, titles(published))

	drawings, err := r.ListProjects(ctx, Filter{Category: portfolio.CategoryDrawings, Published: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Everything", "Sketches"}, titles(drawings))

	featured, err := r.ListProjects(ctx, Filter{Featured: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sketches"}, titles(featured))

	_, err = r.ListProjects(ctx, Filter{Category: "sculpture"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestAttachUploadsAppendsAndPicksCover(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Gallery"})

	first, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 2), "Gallery")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].IsCover)
	assert.False(t, first[1].IsCover)
	assert.Equal(t, "Gallery - Image 1", first[0].AltText)

	second, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug+"-b", 2), "")
	require.NoError(t, err)
	assert.Equal(t, 2, second[0].OrderIndex)
	assert.Equal(t, 3, second[1].OrderIndex)
	assert.False(t, second[0].IsCover)
	assert.Equal(t, "Project image 3", second[0].AltText)

	got, err := r.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 4)
	assert.Equal(t, first[0].ID, got.Cover().ID)

	_, err = r.AttachUploads(ctx, "00000000-0000-0000-0000-000000000000", uploads("x", 1), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetCoverLeavesExactlyOne(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Covers"})
	imgs, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 3), "")
	require.NoError(t, err)

	require.NoError(t, r.SetCover(ctx, p.ID, imgs[2].ID))

	list, err := r.ListImages(ctx, p.ID)
	require.NoError(t, err)
	covers := 0
	for _, img := range list {
		if img.IsCover {
			covers++
			assert.Equal(t, imgs[2].ID, img.ID)
		}
	}
	assert.Equal(t, 1, covers)

	other := mustProject(t, r, portfolio.Project{Title: "Other"})
	assert.ErrorIs(t, r.SetCover(ctx, other.ID, imgs[0].ID), ErrImageNotInProject)
	assert.ErrorIs(t, r.SetCover(ctx, p.ID, "00000000-0000-0000-0000-000000000000"), ErrNotFound)
}

func TestInsertImageTakesOverCover(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Hosted"})
	_, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 2), "")
	require.NoError(t, err)

	img := portfolio.ProjectImage{
		ProjectID:   p.ID,
		StoragePath: "external/hosted/1",
		PublicURL:   "https://images.example.com/1.jpg",
		IsCover:     true,
		OrderIndex:  2,
	}
	require.NoError(t, r.InsertImage(ctx, &img))
	assert.NotEmpty(t, img.ID)

	list, err := r.ListImages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, got := range list {
		assert.Equal(t, got.ID == img.ID, got.IsCover, got.StoragePath)
	}

	orphan := portfolio.ProjectImage{ProjectID: "00000000-0000-0000-0000-000000000000", StoragePath: "external/x/1", PublicURL: "/x.jpg"}
	assert.ErrorIs(t, r.InsertImage(ctx, &orphan), ErrNotFound)
}

func TestReorderImages(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Order"})
	imgs, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 3), "")
	require.NoError(t, err)

	want := []string{imgs[2].ID, imgs[0].ID, imgs[1].ID}
	require.NoError(t, r.ReorderImages(ctx, p.ID, want))

	list, err := r.ListImages(ctx, p.ID)
	require.NoError(t, err)
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	assert.Equal(t, want, got)

	assert.ErrorIs(t, r.ReorderImages(ctx, p.ID, want[:2]), ErrInvalidOrder)
	assert.ErrorIs(t, r.ReorderImages(ctx, p.ID, []string{want[0], want[0], want[1]}), ErrInvalidOrder)
}

func TestUpdateAndDeleteImage(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Edit"})
	imgs, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 1), "")
	require.NoError(t, err)

	alt := "  A dusk skyline  "
	img, err := r.UpdateImage(ctx, imgs[0].ID, ImagePatch{AltText: &alt})
	require.NoError(t, err)
	assert.Equal(t, "A dusk skyline", img.AltText)

	deleted, err := r.DeleteImage(ctx, imgs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, imgs[0].StoragePath, deleted.StoragePath)

	_, err = r.DeleteImage(ctx, imgs[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProjectReturnsStoragePaths(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := mustProject(t, r, portfolio.Project{Title: "Doomed"})
	_, err := r.AttachUploads(ctx, p.ID, uploads(p.Slug, 2), "")
	require.NoError(t, err)
	require.NoError(t, r.TrackView(ctx, p.ID, "test-agent", ""))

	paths, err := r.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"projects/doomed/0.jpg", "projects/doomed/1.jpg"}, paths)

	_, err = r.GetProjectByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := r.StoragePaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = r.DeleteProject(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsAndViews(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := mustProject(t, r, portfolio.Project{Title: "A", Published: true, Featured: true})
	mustProject(t, r, portfolio.Project{Title: "B", Category: portfolio.CategoryDrawings})
	_, err := r.AttachUploads(ctx, a.ID, uploads(a.Slug, 3), "")
	require.NoError(t, err)
	require.NoError(t, r.TrackView(ctx, a.ID, "ua", "https://example.com"))
	require.NoError(t, r.TrackView(ctx, a.ID, "ua", ""))

	views, err := r.ViewCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)

	s, err := r.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		TotalProjects:           2,
		PublishedProjects:       1,
		FeaturedProjects:        1,
		InterfaceDesignProjects: 1,
		DrawingsProjects:        1,
		TotalImages:             3,
		TotalViews:              2,
	}, *s)
}
