package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/erazemk/foodhub/internal/apperr"
	"github.com/erazemk/foodhub/internal/catalog"
	"github.com/erazemk/foodhub/internal/imaging"
	"github.com/erazemk/foodhub/internal/model"
	"github.com/erazemk/foodhub/internal/store"
)

// FoodsHandler serves food definitions and their photos.
type FoodsHandler struct {
	Catalog *catalog.Service
	DB      *sql.DB
}

// List handles GET /api/foods.
func (h *FoodsHandler) List(w http.ResponseWriter, r *http.Request) {
	foods, err := h.Catalog.ListFoods(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if foods == nil {
		foods = []model.FoodItem{}
	}
	jsonResponse(w, http.StatusOK, foods)
}

// UploadImage handles PUT /api/foods/{id}/image with a multipart "image" field.
func (h *FoodsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	food, err := h.Catalog.GetFood(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+64<<10)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		writeError(w, r, apperr.Wrap(apperr.CodeInvalidRequest, err, "file too large or invalid multipart form"))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.CodeInvalidRequest, err, "image file required"))
		return
	}
	defer file.Close()

	photo, err := imaging.Thumbnail(file)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupported) || errors.Is(err, imaging.ErrTooLarge) {
			writeError(w, r, apperr.Wrap(apperr.CodeInvalidRequest, err, "image must be a JPEG or PNG of at most 5 MB"))
			return
		}
		writeError(w, r, apperr.Wrap(apperr.CodeInvalidRequest, err, "could not read image"))
		return
	}

	if err := store.SetFoodImage(r.Context(), h.DB, food.ID, photo.Data, photo.MIME); err != nil {
		writeError(w, r, apperr.Wrap(apperr.CodeStorageFailure, err, "saving food image"))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/foods/{id}/image.
func (h *FoodsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, mime, err := store.GetFoodImage(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, apperr.Wrap(apperr.CodeStorageFailure, err, "loading food image"))
		return
	}
	if data == nil {
		writeError(w, r, apperr.Newf(apperr.CodeNotFound, "no image for food %q", id))
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
