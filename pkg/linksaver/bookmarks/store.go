package bookmarks

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/mpearce/linksaver/pkg/linksaver/extract"
	"github.com/mpearce/linksaver/pkg/linksaver/models"
)

// ErrNotFound is returned when a bookmark does not exist or belongs to
// another user. Callers cannot distinguish the two cases.
var ErrNotFound = errors.New("bookmark not found")

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Extractor derives page metadata and summaries. Both methods absorb
// their own failures and always return usable values.
type Extractor interface {
	Metadata(pageURL string) extract.Metadata
	Summary(pageURL string) string
}

// Store owns bookmark persistence and the per-user position ordering.
//
// Positions of one user's bookmarks must form the dense set
// {0, ..., count-1} at all times. Every read-modify-write therefore runs
// inside a transaction while holding that user's lock; without the lock,
// two concurrent creates could both read the same count and collide.
type Store struct {
	db        *gorm.DB
	extractor Extractor
	locks     sync.Map // userID -> *sync.Mutex
}

// NewStore creates a bookmark store.
func NewStore(db *gorm.DB, extractor Extractor) *Store {
	return &Store{db: db, extractor: extractor}
}

func (s *Store) userLock(userID uint) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ValidationError{"Valid URL is required"}
	}
	return nil
}

// normalizeTags lower-cases and trims tags, dropping empties.
func normalizeTags(tags []string) models.TagList {
	normalized := models.TagList{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			normalized = append(normalized, tag)
		}
	}
	return normalized
}

// Create validates rawURL, derives metadata and a summary, and appends
// the bookmark at the end of the user's list. The two extractions run
// concurrently; either may fall back without aborting the save.
func (s *Store) Create(userID uint, rawURL string, tags []string) (*models.Bookmark, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	var (
		meta    extract.Metadata
		summary string
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		meta = s.extractor.Metadata(rawURL)
	}()
	go func() {
		defer wg.Done()
		summary = s.extractor.Summary(rawURL)
	}()
	wg.Wait()

	bookmark := &models.Bookmark{
		UserID:  userID,
		URL:     rawURL,
		Title:   meta.Title,
		Favicon: meta.Favicon,
		Summary: summary,
		Tags:    normalizeTags(tags),
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		bookmark.Position = int(count)
		return tx.Create(bookmark).Error
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

// List returns the user's bookmarks in position order, optionally
// restricted to those carrying the given tag (case-insensitive).
func (s *Store) List(userID uint, tag string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	if err := s.db.Where("user_id = ?", userID).Order("position ASC").Find(&bookmarks).Error; err != nil {
		return nil, err
	}

	if tag == "" {
		return bookmarks, nil
	}

	// Tags are stored lowercase, so a case-folded comparison suffices.
	want := strings.ToLower(strings.TrimSpace(tag))
	filtered := make([]models.Bookmark, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		for _, t := range bookmark.Tags {
			if t == want {
				filtered = append(filtered, bookmark)
				break
			}
		}
	}
	return filtered, nil
}

// Delete removes the bookmark and shifts every later bookmark of the
// same user down by one, restoring density. Returns ErrNotFound when the
// bookmark is absent or owned by someone else.
func (s *Store) Delete(id, userID uint) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var bookmark models.Bookmark
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&bookmark).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&bookmark).Error; err != nil {
			return err
		}

		return tx.Model(&models.Bookmark{}).
			Where("user_id = ? AND position > ?", userID, bookmark.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
}

// Reorder moves the bookmark to newPosition, shifting the affected
// contiguous range by one. Returns ErrNotFound for absent or foreign
// bookmarks and a ValidationError when newPosition is outside
// [0, count-1]. Reordering to the current position reports no change.
func (s *Store) Reorder(id, userID uint, newPosition int) (changed bool, err error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var bookmark models.Bookmark
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&bookmark).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		oldPosition := bookmark.Position
		if newPosition == oldPosition {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if newPosition < 0 || newPosition >= int(count) {
			return &ValidationError{fmt.Sprintf("position must be between 0 and %d", count-1)}
		}

		if newPosition < oldPosition {
			// Moving earlier: everything in [newPosition, oldPosition) slides up.
			if err := tx.Model(&models.Bookmark{}).
				Where("user_id = ? AND position >= ? AND position < ?", userID, newPosition, oldPosition).
				UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
				return err
			}
		} else {
			// Moving later: everything in (oldPosition, newPosition] slides down.
			if err := tx.Model(&models.Bookmark{}).
				Where("user_id = ? AND position > ? AND position <= ?", userID, oldPosition, newPosition).
				UpdateColumn("position", gorm.Expr("position - 1")).Error; err != nil {
				return err
			}
		}

		changed = true
		return tx.Model(&bookmark).UpdateColumn("position", newPosition).Error
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}
