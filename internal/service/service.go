package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/metrics"
	"github.com/Kerhoff/wishlist/internal/models"
	"github.com/Kerhoff/wishlist/internal/repository"
)

// AssetPath is where bundled category images are served from.
const AssetPath = "/static/images/"

// Options tunes a Service. The zero value is usable.
type Options struct {
	// UndoWindow defaults to DefaultUndoWindow.
	UndoWindow time.Duration
	// AssetBaseURL prefixes bundled image paths, e.g. "http://localhost:8080".
	AssetBaseURL string
	// AutoIncrementIDs lets the database assign identifiers instead of
	// deriving them from the clock.
	AutoIncrementIDs bool
	Metrics          *metrics.Metrics
	Now              func() time.Time
	AfterFunc        AfterFunc
}

// Service is the business logic layer over the wishlist store.
type Service struct {
	logger       *logrus.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
	assetBaseURL string
	autoIDs      bool

	Items     repository.ItemRepository
	Deletions *DeletionScheduler

	idMu   sync.Mutex
	lastID int64
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, items repository.ItemRepository, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Service{
		logger:       logger,
		metrics:      opts.Metrics,
		now:          opts.Now,
		assetBaseURL: strings.TrimRight(opts.AssetBaseURL, "/"),
		autoIDs:      opts.AutoIncrementIDs,
		Items:        items,
	}

	s.Deletions = NewDeletionScheduler(opts.UndoWindow, s.commitDeletion, logger)
	s.Deletions.metrics = opts.Metrics
	s.Deletions.now = opts.Now
	if opts.AfterFunc != nil {
		s.Deletions.afterFunc = opts.AfterFunc
	}

	return s
}

// DefaultItemForm is the item seeded into an empty wishlist.
func DefaultItemForm() ItemForm {
	return ItemForm{
		Title:       "Laptop",
		Description: `ASUS VivoBook 16" Laptop`,
		Price:       "599.99",
		Category:    "electronics",
		URL:         "https://www.bestbuy.com/site/asus-vivobook-16-16-laptop-amd-ryzen-7-with-16gb-memory-1tb-ssd-indie-black/6542092.p?skuId=6542092",
	}
}

// Seed adds the default item when the store is empty. It reports whether
// an item was inserted.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	n, err := s.Items.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count items: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	if _, err := s.Add(ctx, DefaultItemForm()); err != nil {
		return false, fmt.Errorf("failed to seed default item: %w", err)
	}
	return true, nil
}

// List returns every item, newest first.
func (s *Service) List(ctx context.Context) ([]*models.WishlistItem, error) {
	items, err := s.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Sections returns the wishlist grouped by category.
func (s *Service) Sections(ctx context.Context) ([]models.Section, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(items), nil
}

// Get returns a single item.
func (s *Service) Get(ctx context.Context, id int64) (*models.WishlistItem, error) {
	return s.Items.GetByID(ctx, id)
}

// Add validates the form and stores a new item.
func (s *Service) Add(ctx context.Context, form ItemForm) (*models.WishlistItem, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	item := s.buildItem(form, nil)
	item.ID = s.nextID()

	created, err := s.Items.Create(ctx, item)
	if err != nil {
		return nil, err
	}

	s.metrics.ItemCreated()
	s.logger.WithFields(logrus.Fields{
		"item_id":  created.ID,
		"category": created.Category,
	}).Info("Wishlist item added")

	return created, nil
}

// Update validates the form and rewrites the item in place, keeping its
// identifier.
func (s *Service) Update(ctx context.Context, id int64, form ItemForm) (*models.WishlistItem, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	prev, err := s.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item := s.buildItem(form, prev)
	item.ID = prev.ID

	updated, err := s.Items.Update(ctx, item)
	if err != nil {
		return nil, err
	}

	s.metrics.ItemUpdated()
	s.logger.WithField("item_id", id).Info("Wishlist item updated")

	return updated, nil
}

// Delete removes an item immediately, dropping any pending deletion for it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.Deletions.Forget(id)

	if err := s.Items.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.ItemDeleted()
	s.logger.WithField("item_id", id).Info("Wishlist item deleted")
	return nil
}

// ScheduleDelete starts the undo window for an existing item.
func (s *Service) ScheduleDelete(ctx context.Context, id int64) (PendingDeletion, error) {
	if s.Deletions.Closed() {
		return PendingDeletion{}, ErrSchedulerClosed
	}
	item, err := s.Items.GetByID(ctx, id)
	if err != nil {
		return PendingDeletion{}, err
	}
	return s.Deletions.Schedule(item.ID, item.Title)
}

// UndoDelete cancels a pending deletion.
func (s *Service) UndoDelete(id int64) (PendingDeletion, error) {
	return s.Deletions.Cancel(id)
}

// PendingDeletions lists deletions still inside their undo window.
func (s *Service) PendingDeletions() []PendingDeletion {
	return s.Deletions.Pending()
}

// IsPendingDelete reports whether an item is inside its undo window.
func (s *Service) IsPendingDelete(id int64) bool {
	return s.Deletions.IsPending(id)
}

// Close commits every pending deletion. The service rejects new scheduled
// deletions afterwards.
func (s *Service) Close(ctx context.Context) error {
	return s.Deletions.Flush(ctx)
}

// AssetURI resolves a bundled image file name to the URI clients load.
func (s *Service) AssetURI(asset string) string {
	return s.assetBaseURL + AssetPath + asset
}

func (s *Service) commitDeletion(ctx context.Context, id int64) error {
	err := s.Items.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.WithField("item_id", id).Debug("Scheduled deletion found no item")
		return nil
	}
	if err != nil {
		return err
	}

	s.metrics.ItemDeleted()
	s.logger.WithField("item_id", id).Info("Wishlist item deleted after undo window")
	return nil
}

// buildItem turns a validated form into an item. prev is the stored item
// when editing and nil when adding.
func (s *Service) buildItem(form ItemForm, prev *models.WishlistItem) *models.WishlistItem {
	item := &models.WishlistItem{
		Title:       form.Title,
		Description: form.Description,
		Price:       FormatPrice(form.Price),
		URL:         form.URL,
	}

	switch {
	case form.Category == models.CategoryCustom:
		item.Category = form.CustomCategory
		item.Image = form.CustomImage
	case models.IsPredefined(form.Category):
		c, _ := models.LookupCategory(form.Category)
		item.Category = c.Value
		item.Image = s.AssetURI(c.Asset)
	default:
		// An existing custom category picked again on edit.
		item.Category = form.Category
		item.Image = form.CustomImage
		if item.Image == "" && prev != nil {
			item.Image = prev.Image
		}
	}

	return item
}

// nextID derives an identifier from the clock, bumping it when two items
// are created within the same millisecond. It returns 0 when the database
// assigns identifiers.
func (s *Service) nextID() int64 {
	if s.autoIDs {
		return 0
	}

	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
