// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 JobDesk Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jobdesk/jobdesk/internal/category"
	"github.com/jobdesk/jobdesk/internal/job"
	"github.com/jobdesk/jobdesk/internal/notification"
)

// pathID parses the {id} path segment; ok is false when it is not a ULID,
// in which case the not-found response has already been written.
func pathID(w http.ResponseWriter, r *http.Request, notFoundMsg string) (ulid.ULID, bool) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, notFoundMsg)
		return ulid.ULID{}, false
	}
	return id, true
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetAll(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": categories})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgCategoryNotFound)
	if !ok {
		return
	}
	c, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": c})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required.")
		return
	}

	now := time.Now()
	c := &category.Category{
		ID:        ulid.Make(),
		Name:      body.Name,
		Icon:      body.Icon,
		Color:     body.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(r.Context(), c); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": c})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgCategoryNotFound)
	if !ok {
		return
	}

	var update category.Update
	if err := decodeJSON(r, &update); err != nil {
		update = category.Update{}
	}

	c, err := s.categories.Update(r.Context(), id, update)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": c})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgCategoryNotFound)
	if !ok {
		return
	}
	c, err := s.categories.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": c})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.jobs.GetAll(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgJobNotFound)
	if !ok {
		return
	}
	j, err := s.jobs.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": j})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string     `json:"title"`
		Company     string     `json:"company"`
		Location    string     `json:"location"`
		Type        string     `json:"type"`
		Salary      string     `json:"salary"`
		Description string     `json:"description"`
		CategoryID  *ulid.ULID `json:"categoryId"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Title == "" || body.Company == "" {
		writeError(w, http.StatusBadRequest, "title and company are required.")
		return
	}

	var postedBy *ulid.ULID
	if id, err := currentUserID(r); err == nil {
		postedBy = &id
	}

	now := time.Now()
	j := &job.Job{
		ID:          ulid.Make(),
		Title:       body.Title,
		Company:     body.Company,
		Location:    body.Location,
		Type:        body.Type,
		Salary:      body.Salary,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		PostedBy:    postedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Create(r.Context(), j); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": j})
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgJobNotFound)
	if !ok {
		return
	}

	var update job.Update
	if err := decodeJSON(r, &update); err != nil {
		update = job.Update{}
	}

	j, err := s.jobs.Update(r.Context(), id, update)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": j})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgJobNotFound)
	if !ok {
		return
	}
	j, err := s.jobs.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": j})
}

// handleListNotifications returns the caller's notifications, newest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := currentUserID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	list, err := s.notifs.ListByUser(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": list})
}

// handleCreateNotification delivers a notification to a user. Any
// authenticated account may send one.
func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID  string     `json:"userId"`
		Type    string     `json:"type"`
		Message string     `json:"message"`
		JobID   *ulid.ULID `json:"jobId"`
	}
	if err := decodeJSON(r, &body); err != nil || body.UserID == "" || body.Message == "" {
		writeError(w, http.StatusBadRequest, "userId and message are required.")
		return
	}

	userID, err := ulid.Parse(body.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	n := &notification.Notification{
		ID:        ulid.Make(),
		UserID:    userID,
		Type:      body.Type,
		Message:   body.Message,
		JobID:     body.JobID,
		CreatedAt: time.Now(),
	}
	if err := s.notifs.Create(r.Context(), n); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": n})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, msgNotifNotFound)
	if !ok {
		return
	}
	n, err := s.notifs.Delete(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": n})
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	id, err := currentUserID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err := s.notifs.ClearForUser(r.Context(), id); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Notifications cleared."})
}
