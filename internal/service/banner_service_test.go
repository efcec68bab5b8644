package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupBannerServiceTest(t *testing.T, name string) (*BannerService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Banner{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return NewBannerService(repository.NewBannerRepository(db)), db
}

func validBannerInput(name string) BannerInput {
	return BannerInput{
		Name:     name,
		Image:    "https://cdn.example.com/" + name + ".jpg",
		IsActive: true,
	}
}

func TestBannerInputValidation(t *testing.T) {
	bannerService, _ := setupBannerServiceTest(t, "banner_validation")

	missingName := validBannerInput("no-name")
	missingName.Name = " "
	if _, err := bannerService.Create(missingName); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid for blank name, got %v", err)
	}

	missingImage := validBannerInput("no-image")
	missingImage.Image = ""
	if _, err := bannerService.Create(missingImage); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid for blank image, got %v", err)
	}

	start := time.Now()
	end := start.Add(-time.Hour)
	reversed := validBannerInput("reversed-window")
	reversed.StartAt = &start
	reversed.EndAt = &end
	if _, err := bannerService.Create(reversed); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid for reversed window, got %v", err)
	}

	danglingLink := validBannerInput("dangling-link")
	danglingLink.LinkType = constants.BannerLinkTypeExternal
	if _, err := bannerService.Create(danglingLink); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid for missing link value, got %v", err)
	}

	unknownLink := validBannerInput("unknown-link")
	unknownLink.LinkType = "popup"
	if _, err := bannerService.Create(unknownLink); !errors.Is(err, ErrBannerInvalid) {
		t.Fatalf("expected ErrBannerInvalid for unknown link type, got %v", err)
	}
}

func TestBannerCreateNormalizesDefaults(t *testing.T) {
	bannerService, _ := setupBannerServiceTest(t, "banner_defaults")

	input := validBannerInput("hero")
	input.LinkType = constants.BannerLinkTypeNone
	input.LinkValue = "left-over-target"
	banner, err := bannerService.Create(input)
	if err != nil {
		t.Fatalf("create banner failed: %v", err)
	}
	if banner.Position != constants.BannerPositionHomeHero {
		t.Fatalf("expected default position, got %s", banner.Position)
	}
	// link_type 为 none 时清空链接目标
	if banner.LinkValue != "" {
		t.Fatalf("expected cleared link value, got %s", banner.LinkValue)
	}
}

func TestBannerListActiveHonorsWindowAndOrder(t *testing.T) {
	bannerService, db := setupBannerServiceTest(t, "banner_window")

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	rows := []models.Banner{
		{Name: "live-low", Position: constants.BannerPositionHomeHero, Image: "a.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: true, SortOrder: 1},
		{Name: "live-high", Position: constants.BannerPositionHomeHero, Image: "b.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: true, SortOrder: 9, StartAt: &past, EndAt: &future},
		{Name: "expired", Position: constants.BannerPositionHomeHero, Image: "c.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: true, EndAt: &past},
		{Name: "not-started", Position: constants.BannerPositionHomeHero, Image: "d.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: true, StartAt: &future},
		{Name: "disabled", Position: constants.BannerPositionHomeHero, Image: "e.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: false},
		{Name: "other-position", Position: "footer", Image: "f.jpg", LinkType: constants.BannerLinkTypeNone, IsActive: true},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("create banner failed: %v", err)
		}
	}

	banners, err := bannerService.ListActive("", 10)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(banners) != 2 {
		t.Fatalf("expected 2 live banners, got %d", len(banners))
	}
	if banners[0].Name != "live-high" || banners[1].Name != "live-low" {
		t.Fatalf("expected sort order weighting, got %s then %s", banners[0].Name, banners[1].Name)
	}
}

func TestBannerUpdateAndDelete(t *testing.T) {
	bannerService, _ := setupBannerServiceTest(t, "banner_crud")

	banner, err := bannerService.Create(validBannerInput("seasonal"))
	if err != nil {
		t.Fatalf("create banner failed: %v", err)
	}

	updated := validBannerInput("seasonal")
	updated.Title = "Mid-season sale"
	updated.LinkType = constants.BannerLinkTypeInternal
	updated.LinkValue = "/products?featured=true"
	row, err := bannerService.Update(banner.ID, updated)
	if err != nil {
		t.Fatalf("update banner failed: %v", err)
	}
	if row.Title != "Mid-season sale" || row.LinkValue != "/products?featured=true" {
		t.Fatalf("unexpected banner after update: %+v", row)
	}

	if err := bannerService.Delete(banner.ID); err != nil {
		t.Fatalf("delete banner failed: %v", err)
	}
	if _, err := bannerService.GetByID(banner.ID); !errors.Is(err, ErrBannerNotFound) {
		t.Fatalf("expected ErrBannerNotFound after delete, got %v", err)
	}

	if err := bannerService.Delete(9999); !errors.Is(err, ErrBannerNotFound) {
		t.Fatalf("expected ErrBannerNotFound for missing banner, got %v", err)
	}
}
