package scryfall

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when Scryfall answers 404 for a lookup or search.
	ErrNotFound = errors.New("card not found")
	// ErrNoImage is returned by Card.ImageURL when neither the card nor its first face carries an image.
	ErrNoImage = errors.New("card has no image")
)

// Card is the subset of a Scryfall card object the tools consume.
type Card struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Set       string     `json:"set"`
	SetName   string     `json:"set_name"`
	Prices    Prices     `json:"prices"`
	ImageURIs ImageURIs  `json:"image_uris,omitempty"`
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// Prices holds decimal strings; Scryfall sends null for unknown prices.
type Prices struct {
	EUR     *string `json:"eur"`
	EURFoil *string `json:"eur_foil"`
}

// ImageURIs maps image size (small, normal, large, png, art_crop, border_crop) to a URL.
type ImageURIs map[string]string

// CardFace is one face of a double-faced card layout.
type CardFace struct {
	Name      string    `json:"name"`
	ImageURIs ImageURIs `json:"image_uris,omitempty"`
}

// List is the paginated list object returned by /cards/search.
type List struct {
	Data       []Card `json:"data"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page"`
	TotalCards int    `json:"total_cards"`
}

// APIError is Scryfall's error object, returned for any non-2xx status.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Details)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}

// HasPrice reports whether either EUR price is present.
func (c *Card) HasPrice() bool {
	return nonEmpty(c.Prices.EUR) || nonEmpty(c.Prices.EURFoil)
}

// ImageURL prefers the card's own image bundle and falls back to the first
// face for double-faced layouts.
func (c *Card) ImageURL(size string) (string, error) {
	if u := c.ImageURIs[size]; u != "" {
		return u, nil
	}
	if len(c.CardFaces) > 0 {
		if u := c.CardFaces[0].ImageURIs[size]; u != "" {
			return u, nil
		}
	}
	return "", ErrNoImage
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
