package catalog

import (
	"context"

	"github.com/samber/lo"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

type StoryDTO struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Synopsis string `json:"synopsis,omitempty"`
	Status   string `json:"status"`
}

// ChapterDTO never carries content; the content endpoint serves it separately
// after the access gate says yes.
type ChapterDTO struct {
	Id      string `json:"id"`
	StoryId string `json:"story_id"`
	Seq     uint   `json:"seq"`
	Title   string `json:"title"`
	Price   uint   `json:"price"`
}

type StoryDetail struct {
	StoryDTO
	Chapters []ChapterDTO `json:"chapters"`
}

type Service struct {
	stories  repo2.StoryRepository
	chapters repo2.ChapterRepository
}

func NewService(stories repo2.StoryRepository, chapters repo2.ChapterRepository) *Service {
	return &Service{stories: stories, chapters: chapters}
}

func (s *Service) CreateStory(ctx context.Context, req domain.CreateStoryRequest) (StoryDTO, error) {
	story := repo2.Story{
		Title:    req.Title,
		Author:   req.Author,
		Synopsis: req.Synopsis,
		Status:   "ongoing",
	}
	if err := s.stories.Create(ctx, &story); err != nil {
		return StoryDTO{}, err
	}
	log2.GetLogger(ctx).Infof("story %s created", story.ID)
	return toStoryDTO(story), nil
}

func (s *Service) CreateChapter(ctx context.Context, req domain.CreateChapterRequest) (ChapterDTO, error) {
	if _, err := s.stories.GetById(ctx, req.StoryId); err != nil {
		return ChapterDTO{}, err
	}
	chapter := repo2.Chapter{
		StoryID: req.StoryId,
		Title:   req.Title,
		Price:   req.Price,
		Content: req.Content,
	}
	if err := s.chapters.Create(ctx, &chapter); err != nil {
		return ChapterDTO{}, err
	}
	log2.GetLogger(ctx).Infof("chapter %s (seq %d) added to story %s", chapter.ID, chapter.Seq, req.StoryId)
	return toChapterDTO(chapter), nil
}

func (s *Service) SetChapterPrice(ctx context.Context, chapterId string, price uint) error {
	return s.chapters.SetPrice(ctx, chapterId, price)
}

func (s *Service) ListStories(ctx context.Context) ([]StoryDTO, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(stories, func(item repo2.Story, index int) StoryDTO {
		return toStoryDTO(item)
	}), nil
}

func (s *Service) GetStory(ctx context.Context, storyId string) (StoryDetail, error) {
	story, err := s.stories.GetById(ctx, storyId)
	if err != nil {
		return StoryDetail{}, err
	}
	chapters, err := s.chapters.ListByStory(ctx, storyId)
	if err != nil {
		return StoryDetail{}, err
	}
	return StoryDetail{
		StoryDTO: toStoryDTO(story),
		Chapters: lo.Map(chapters, func(item repo2.Chapter, index int) ChapterDTO {
			return toChapterDTO(item)
		}),
	}, nil
}

func (s *Service) GetChapter(ctx context.Context, chapterId string) (repo2.Chapter, error) {
	return s.chapters.GetById(ctx, chapterId)
}

func toStoryDTO(s repo2.Story) StoryDTO {
	return StoryDTO{
		Id:       s.ID,
		Title:    s.Title,
		Author:   s.Author,
		Synopsis: s.Synopsis,
		Status:   s.Status,
	}
}

func toChapterDTO(c repo2.Chapter) ChapterDTO {
	return ChapterDTO{
		Id:      c.ID,
		StoryId: c.StoryID,
		Seq:     c.Seq,
		Title:   c.Title,
		Price:   c.Price,
	}
}
