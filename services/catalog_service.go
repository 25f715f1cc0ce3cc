package services

import (
	"tripquiz/models"

	"gorm.io/gorm"
)

// CatalogService stores custom question catalogs in postgres and converts
// them into the immutable runtime form rooms are created from.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type CreateCatalogRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text          string                `json:"text" binding:"required"`
	AllowMultiple bool                  `json:"allow_multiple"`
	Order         int                   `json:"order" binding:"required"`
	Options       []CreateOptionRequest `json:"options" binding:"required,min=2,max=6,dive"`
}

type CreateOptionRequest struct {
	Text  string `json:"text" binding:"required"`
	Order int    `json:"order" binding:"required"`
}

func (s *CatalogService) CreateCatalog(req *CreateCatalogRequest) (*models.Catalog, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	catalog := models.Catalog{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := tx.Create(&catalog).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, qReq := range req.Questions {
		question := models.CatalogQuestion{
			CatalogID:     catalog.ID,
			Text:          qReq.Text,
			AllowMultiple: qReq.AllowMultiple,
			Order:         qReq.Order,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		for _, optReq := range qReq.Options {
			option := models.CatalogOption{
				QuestionID: question.ID,
				Text:       optReq.Text,
				Order:      optReq.Order,
			}
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetCatalogByID(catalog.ID)
}

func (s *CatalogService) GetCatalogByID(id uint) (*models.Catalog, error) {
	var catalog models.Catalog
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("catalog_questions.order")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("catalog_options.order")
		}).
		First(&catalog, id).Error
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (s *CatalogService) ListCatalogs() ([]models.Catalog, error) {
	var catalogs []models.Catalog
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("catalog_questions.order")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("catalog_options.order")
		}).
		Order("created_at DESC").
		Find(&catalogs).Error
	return catalogs, err
}

// Snapshot loads a stored catalog and converts it to the runtime form
// used by rooms. Database ids become the numeric ids on the wire.
func (s *CatalogService) Snapshot(id uint) ([]Question, error) {
	catalog, err := s.GetCatalogByID(id)
	if err != nil {
		return nil, err
	}

	questions := make([]Question, len(catalog.Questions))
	for i, q := range catalog.Questions {
		options := make([]Option, len(q.Options))
		for j, o := range q.Options {
			options[j] = Option{ID: int(o.ID), Text: o.Text}
		}
		questions[i] = Question{
			ID:            int(q.ID),
			Text:          q.Text,
			Options:       options,
			AllowMultiple: q.AllowMultiple,
		}
	}
	return questions, nil
}

// Default returns the built-in travel preference catalog used when a room
// is created without naming a stored catalog.
func (s *CatalogService) Default() []Question {
	return defaultCatalog
}

// EnsureDefault persists the built-in catalog once, so it shows up in the
// catalog listing. Re-running is a no-op.
func (s *CatalogService) EnsureDefault() error {
	var count int64
	if err := s.db.Model(&models.Catalog{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	req := CreateCatalogRequest{
		Title:       "Group trip preferences",
		Description: "Default travel preference questionnaire",
	}
	for i, question := range defaultCatalog {
		qReq := CreateQuestionRequest{
			Text:          question.Text,
			AllowMultiple: question.AllowMultiple,
			Order:         i + 1,
		}
		for j, option := range question.Options {
			qReq.Options = append(qReq.Options, CreateOptionRequest{Text: option.Text, Order: j + 1})
		}
		req.Questions = append(req.Questions, qReq)
	}
	_, err := s.CreateCatalog(&req)
	return err
}

var defaultCatalog = []Question{
	{
		ID:            1,
		Text:          "What kind of climate are you looking for?",
		AllowMultiple: false,
		Options: []Option{
			{ID: 101, Text: "Warm and Sunny"},
			{ID: 102, Text: "Cool and Crisp"},
			{ID: 103, Text: "Moderate Temps"},
			{ID: 104, Text: "Snowy and Cold"},
		},
	},
	{
		ID:            2,
		Text:          "Which activities interest you most? (Select up to 2)",
		AllowMultiple: true,
		Options: []Option{
			{ID: 201, Text: "Relaxing on a beach"},
			{ID: 202, Text: "Hiking in mountains"},
			{ID: 203, Text: "Exploring historical sites"},
			{ID: 204, Text: "Trying local cuisine"},
			{ID: 205, Text: "Shopping"},
		},
	},
	{
		ID:            3,
		Text:          "What's your preferred travel pace?",
		AllowMultiple: false,
		Options: []Option{
			{ID: 301, Text: "Fast-paced, see as much as possible"},
			{ID: 302, Text: "Relaxed, take it easy"},
			{ID: 303, Text: "A mix of both"},
		},
	},
}
