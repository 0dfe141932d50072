package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/store"
)

var ErrBadRequest = errors.New("bad request")

// Folder is a folder of the flattened folder list.
type Folder struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Depth int    `json:"depth"`
}

// Item is the wire form of a bookmark. IDs use the "type:number" form.
type Item struct {
	ID         string `json:"id"`
	ParentID   string `json:"parentId,omitempty"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	IsFolder   bool   `json:"isFolder"`
	Editable   bool   `json:"editable"`
	Read       bool   `json:"read,omitempty"`
	ChildCount int    `json:"childCount,omitempty"`
	Added      string `json:"added"`
}

func toItem(it model.BookmarkItem) Item {
	out := Item{
		ID:         it.ID.String(),
		Title:      it.Title,
		URL:        it.URL,
		IsFolder:   it.IsFolder,
		Editable:   it.IsEditable && !it.IsPermanent,
		Read:       it.Read,
		ChildCount: it.ChildCount,
		Added:      it.DateAdded.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if it.ParentID.Valid() {
		out.ParentID = it.ParentID.String()
	}
	return out
}

func toItems(items []model.BookmarkItem) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, toItem(it))
	}
	return out
}

// AddRequest creates a bookmark, or a folder when URL is empty.
type AddRequest struct {
	Parent string `json:"parent,omitempty"`
	Index  *int   `json:"index,omitempty"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

// UpdateRequest changes the fields that are set.
type UpdateRequest struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
	Read  *bool   `json:"read,omitempty"`
}

// MoveRequest moves a node under Parent.
type MoveRequest struct {
	Parent string `json:"parent"`
	Index  *int   `json:"index,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrNotEditable), errors.Is(err, store.ErrPermanent):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNothingUndo):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvalidMove), errors.Is(err, store.ErrInvalidIndex),
		errors.Is(err, store.ErrWrongType), errors.Is(err, store.ErrNotFolder),
		errors.Is(err, store.ErrEmptyURL), errors.Is(err, store.ErrInvalidOrder):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotLoaded), errors.Is(err, bridge.ErrDestroyed):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (model.BookmarkID, error) {
	return model.ParseBookmarkID(chi.URLParam(r, "id"))
}

func index(i *int) int {
	if i == nil {
		return -1
	}
	return *i
}

func (s *Server) get(id model.BookmarkID) (model.BookmarkItem, error) {
	it, ok := s.b.GetBookmarkByID(id)
	if !ok {
		return model.BookmarkItem{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return it, nil
}

func (s *Server) listFolders(w http.ResponseWriter, r *http.Request) {
	folders := s.b.GetAllFoldersWithDepths()
	out := make([]Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, Folder{ID: f.Item.ID.String(), Title: f.Item.Title, Depth: f.Depth})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, fmt.Errorf("%w: missing q", ErrBadRequest))
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("%w: limit %q", ErrBadRequest, v))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, toItems(s.b.SearchBookmarks(q, limit)))
}

func (s *Server) getBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(it))
}

func (s *Server) listChildren(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !it.IsFolder {
		writeError(w, fmt.Errorf("%w: %s", store.ErrNotFolder, id))
		return
	}
	writeJSON(w, http.StatusOK, toItems(s.b.GetChildren(id)))
}

func (s *Server) addBookmark(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" && req.URL == "" {
		writeError(w, fmt.Errorf("%w: title or url required", ErrBadRequest))
		return
	}

	parent := s.b.GetDefaultFolder()
	if req.Parent != "" {
		p, err := model.ParseBookmarkID(req.Parent)
		if err != nil {
			writeError(w, err)
			return
		}
		parent = p
	}

	var (
		id  model.BookmarkID
		err error
	)
	if req.URL == "" {
		id, err = s.b.AddFolder(parent, index(req.Index), req.Title)
	} else {
		if req.Title == "" {
			req.Title = req.URL
		}
		id, err = s.b.AddBookmark(parent, index(req.Index), req.Title, req.URL)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(it))
}

func (s *Server) addToReadingList(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.URL == "" {
		writeError(w, store.ErrEmptyURL)
		return
	}
	if req.Title == "" {
		req.Title = req.URL
	}
	id, err := s.b.AddToReadingList(req.Title, req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(it))
}

func (s *Server) updateBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req UpdateRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.get(id); err != nil {
		writeError(w, err)
		return
	}
	if req.Title != nil {
		if err := s.b.SetBookmarkTitle(id, *req.Title); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.URL != nil {
		if err := s.b.SetBookmarkURL(id, *req.URL); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Read != nil {
		if err := s.b.SetReadStatus(id, *req.Read); err != nil {
			writeError(w, err)
			return
		}
	}
	it, err := s.get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(it))
}

func (s *Server) moveBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req MoveRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	parent, err := model.ParseBookmarkID(req.Parent)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.get(id); err != nil {
		writeError(w, err)
		return
	}
	newID, err := s.b.MoveBookmark(id, parent, index(req.Index))
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := s.get(newID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(it))
}

func (s *Server) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.get(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.b.DeleteBookmark(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	ids, err := s.b.Undo()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	writeJSON(w, http.StatusOK, map[string][]string{"restored": out})
}
