package services

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookService struct {
	books BookStore
	users UserStore
	now   func() time.Time
}

func NewBookService(books BookStore, users UserStore) *BookService {
	return &BookService{books: books, users: users, now: time.Now}
}

// hideFile strips the download link from books the viewer does not own
func hideFile(b *models.Book) {
	b.FileURL = ""
}

// ListPublished returns published books, optionally filtered by tag
func (s *BookService) ListPublished(ctx context.Context, tag string) ([]models.Book, error) {
	books, err := s.books.List(ctx, true, tag)
	if err != nil {
		return nil, err
	}
	for i := range books {
		hideFile(&books[i])
	}
	return books, nil
}

func (s *BookService) ListAll(ctx context.Context) ([]models.Book, error) {
	return s.books.List(ctx, false, "")
}

// Get returns a book; the file URL is only kept for owners and admins
func (s *BookService) Get(ctx context.Context, id primitive.ObjectID, viewerID *primitive.ObjectID, isAdmin bool) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBookNotFound)
	}
	if isAdmin {
		return book, nil
	}
	if !book.IsPublished {
		return nil, ErrBookNotFound
	}
	owned := false
	if viewerID != nil {
		if user, err := s.users.FindByID(ctx, *viewerID); err == nil {
			owned = user.OwnsBook(id)
		}
	}
	if !owned {
		hideFile(book)
	}
	return book, nil
}

func applyBookRequest(b *models.Book, req models.BookRequest) {
	b.Title = req.Title
	b.Author = req.Author
	b.Description = req.Description
	b.Category = req.Category
	b.Tags = req.Tags
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.Price = roundMoney(req.Price)
	b.CoverURL = req.CoverURL
	b.FileURL = req.FileURL
	b.IsPublished = req.IsPublished
}

func (s *BookService) Create(ctx context.Context, req models.BookRequest) (*models.Book, error) {
	now := s.now()
	book := &models.Book{CreatedAt: now, UpdatedAt: now}
	applyBookRequest(book, req)
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id primitive.ObjectID, req models.BookRequest) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBookNotFound)
	}
	applyBookRequest(book, req)
	if err := s.books.Update(ctx, book); err != nil {
		return nil, mapNotFound(err, ErrBookNotFound)
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.books.Delete(ctx, id), ErrBookNotFound)
}
