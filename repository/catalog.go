package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

type storyRepository struct {
	database *gorm.DB
}

func (s *storyRepository) Create(ctx context.Context, story *Story) error {
	return s.database.WithContext(ctx).Model(Story{}).Create(story).Error
}

func (s *storyRepository) GetById(ctx context.Context, storyId string) (Story, error) {
	var story Story
	err := s.database.WithContext(ctx).Model(Story{}).Where("id = ?", storyId).First(&story).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return story, domain.ErrNotFound
	}
	return story, err
}

func (s *storyRepository) List(ctx context.Context) ([]Story, error) {
	var stories []Story
	err := s.database.WithContext(ctx).Model(Story{}).Order("created_at DESC").Find(&stories).Error
	return stories, err
}

type StoryRepository interface {
	Create(ctx context.Context, story *Story) error
	GetById(ctx context.Context, storyId string) (Story, error)
	List(ctx context.Context) ([]Story, error)
}

func NewStoryRepo(db *gorm.DB) StoryRepository {
	return &storyRepository{database: db}
}

type chapterRepository struct {
	database *gorm.DB
}

func (c *chapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	return c.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last Chapter
		err := tx.Model(Chapter{}).Where("story_id = ?", chapter.StoryID).
			Order("seq DESC").First(&last).Error
		switch {
		case err == nil:
			chapter.Seq = last.Seq + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			chapter.Seq = 1
		default:
			return err
		}
		return tx.Model(Chapter{}).Create(chapter).Error
	})
}

func (c *chapterRepository) GetById(ctx context.Context, chapterId string) (Chapter, error) {
	var chapter Chapter
	err := c.database.WithContext(ctx).Model(Chapter{}).Where("id = ?", chapterId).First(&chapter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chapter, domain.ErrNotFound
	}
	return chapter, err
}

func (c *chapterRepository) ListByStory(ctx context.Context, storyId string) ([]Chapter, error) {
	var chapters []Chapter
	err := c.database.WithContext(ctx).Model(Chapter{}).
		Where("story_id = ?", storyId).Order("seq ASC").Find(&chapters).Error
	return chapters, err
}

// SetPrice is non-retroactive: unlock records keep the price paid at purchase
// time, so repricing never touches them.
func (c *chapterRepository) SetPrice(ctx context.Context, chapterId string, price uint) error {
	if _, err := c.GetById(ctx, chapterId); err != nil {
		return err
	}
	return c.database.WithContext(ctx).Model(Chapter{}).Where("id = ?", chapterId).Update("price", price).Error
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *Chapter) error
	GetById(ctx context.Context, chapterId string) (Chapter, error)
	ListByStory(ctx context.Context, storyId string) ([]Chapter, error)
	SetPrice(ctx context.Context, chapterId string, price uint) error
}

func NewChapterRepo(db *gorm.DB) ChapterRepository {
	return &chapterRepository{database: db}
}
