package api

import (
	"fmt"

	"github.com/mohdsalimkhatib/Gravity/internal/learning"
)

// LoginResponse mirrors the payload returned by POST /api/auth/login.
type LoginResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Page is the paginated list envelope with learnings already decoded
// into their domain form.
type Page struct {
	Learnings   []learning.Learning
	CurrentPage int
	TotalItems  int64
	TotalPages  int
	PageSize    int
	HasNext     bool
	HasPrevious bool
}

// pageWire mirrors GET /api/learnings.
type pageWire struct {
	Learnings   []learningWire `json:"learnings"`
	CurrentPage int            `json:"currentPage"`
	TotalItems  int64          `json:"totalItems"`
	TotalPages  int            `json:"totalPages"`
	PageSize    int            `json:"pageSize"`
	HasNext     bool           `json:"hasNext"`
	HasPrevious bool           `json:"hasPrevious"`
}

// learningWire is the transport shape of a learning: attachments and
// custom properties ride as JSON-encoded strings, null when empty.
type learningWire struct {
	ID               int64   `json:"id,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	Date             string  `json:"date"`
	Tags             string  `json:"tags,omitempty"`
	ImageURL         string  `json:"imageUrl,omitempty"`
	Attachments      *string `json:"attachments,omitempty"`
	CustomProperties *string `json:"customProperties,omitempty"`
}

// toWire encodes a learning for transport. Empty attachment lists and
// property mappings become absent fields rather than "[]"/"{}".
func toWire(l learning.Learning) (learningWire, error) {
	attachments, err := learning.EncodeAttachments(l.Attachments)
	if err != nil {
		return learningWire{}, err
	}
	props, err := learning.EncodeProperties(l.CustomProperties)
	if err != nil {
		return learningWire{}, err
	}
	return learningWire{
		ID:               l.ID,
		Title:            l.Title,
		Description:      l.Description,
		Category:         l.Category,
		Date:             learning.FormatDate(l.Date),
		Tags:             l.Tags,
		ImageURL:         l.ImageURL,
		Attachments:      attachments,
		CustomProperties: props,
	}, nil
}

// fromWire decodes a received learning into domain form. Serialized
// fields are parsed here so nothing downstream ever sees the string
// encoding.
func fromWire(w learningWire) (learning.Learning, error) {
	date, err := learning.ParseDate(w.Date)
	if err != nil {
		return learning.Learning{}, fmt.Errorf("learning %d: %w", w.ID, err)
	}
	attachments, err := learning.DecodeAttachments(w.Attachments)
	if err != nil {
		return learning.Learning{}, fmt.Errorf("learning %d: %w", w.ID, err)
	}
	props, err := learning.DecodeProperties(w.CustomProperties)
	if err != nil {
		return learning.Learning{}, fmt.Errorf("learning %d: %w", w.ID, err)
	}
	return learning.Learning{
		ID:               w.ID,
		Title:            w.Title,
		Description:      w.Description,
		Category:         w.Category,
		Date:             date,
		Tags:             w.Tags,
		ImageURL:         w.ImageURL,
		Attachments:      attachments,
		CustomProperties: props,
	}, nil
}
