package handlers

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Dosada05/poker-league/middleware"
	"github.com/Dosada05/poker-league/services"
)

const multipartMemory = 8 << 20

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(ps services.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readImagePart returns nil when the form carries no "image" part. The caller closes the file.
func readImagePart(r *http.Request) (*services.ImageUpload, multipart.File, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get image file from form: %w", err)
	}
	if header.Size > services.MaxImageSize {
		file.Close()
		return nil, nil, fmt.Errorf("image must not be larger than %d bytes", services.MaxImageSize)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		file.Close()
		return nil, nil, errors.New("content-type header is required for image")
	}
	return &services.ImageUpload{Reader: file, ContentType: contentType}, file, nil
}

func parsePostForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+maxJSONBodyBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}
	return nil
}

func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if viewer, err := middleware.GetAccountIDFromContext(r.Context()); err == nil {
		for i := range posts {
			posts[i].MarkLikedBy(viewer)
		}
	}

	response := jsonResponse{"posts": posts}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.postService.GetPost(r.Context(), postID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if viewer, err := middleware.GetAccountIDFromContext(r.Context()); err == nil {
		post.MarkLikedBy(viewer)
	}

	response := jsonResponse{"post": post}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreatePost accepts JSON, or multipart/form-data with title, content and an optional image part.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input services.PostInput
	var image *services.ImageUpload
	if isMultipart(r) {
		if err := parsePostForm(w, r); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		input.Title, _ = formValue(r, "title")
		input.Content, _ = formValue(r, "content")

		var file multipart.File
		image, file, err = readImagePart(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if file != nil {
			defer file.Close()
		}
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.postService.CreatePost(r.Context(), actor, input, image)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"post": post}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdatePostInput
	var image *services.ImageUpload
	if isMultipart(r) {
		if err := parsePostForm(w, r); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if v, ok := formValue(r, "title"); ok {
			input.Title = &v
		}
		if v, ok := formValue(r, "content"); ok {
			input.Content = &v
		}
		if v, ok := formValue(r, "remove_image"); ok {
			remove, err := strconv.ParseBool(v)
			if err != nil {
				badRequestResponse(w, r, fmt.Errorf("invalid remove_image value: %q", v))
				return
			}
			input.RemoveImage = remove
		}

		var file multipart.File
		image, file, err = readImagePart(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if file != nil {
			defer file.Close()
		}
	} else if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), actor, postID, input, image)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"post": post}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.postService.DeletePost(r.Context(), actor, postID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.postService.ToggleLike(r.Context(), actor, postID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
