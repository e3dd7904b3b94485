package controllers

import (
	"net/http"

	"github.com/HSouheill/academy_backend/middleware"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/services"
	"github.com/labstack/echo/v4"
)

type BookController struct {
	books *services.BookService
}

func NewBookController(books *services.BookService) *BookController {
	return &BookController{books: books}
}

func (bc *BookController) ListBooks(c echo.Context) error {
	books, err := bc.books.ListPublished(c.Request().Context(), c.QueryParam("tag"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Books retrieved successfully", books)
}

func (bc *BookController) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	book, err := bc.books.Get(c.Request().Context(), id, viewerID(c), middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Book retrieved successfully", book)
}

func (bc *BookController) AdminListBooks(c echo.Context) error {
	books, err := bc.books.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Books retrieved successfully", books)
}

func (bc *BookController) CreateBook(c echo.Context) error {
	var req models.BookRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	book, err := bc.books.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Book created successfully", book)
}

func (bc *BookController) UpdateBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req models.BookRequest
	if err := bindRequest(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	book, err := bc.books.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Book updated successfully", book)
}

func (bc *BookController) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := bc.books.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Book deleted successfully", nil)
}
