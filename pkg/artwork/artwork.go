// Package artwork defines the records and pagination envelope returned by the
// Art Institute of Chicago artwork listing endpoint.
package artwork

import (
	"encoding/json"
	"fmt"
	"io"
)

// DefaultFields is the column set requested from the listing endpoint.
var DefaultFields = []string{
	"id",
	"title",
	"place_of_origin",
	"artist_display",
	"inscriptions",
	"date_start",
	"date_end",
}

// Artwork is one record of the remote collection. It is identified by ID and
// never mutated locally.
type Artwork struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	PlaceOfOrigin string  `json:"place_of_origin"`
	ArtistDisplay string  `json:"artist_display"`
	Inscriptions  *string `json:"inscriptions"`
	DateStart     int     `json:"date_start"`
	DateEnd       int     `json:"date_end"`
}

// InscriptionsText returns the inscriptions or an empty string when the
// remote value is null.
func (a Artwork) InscriptionsText() string {
	if a.Inscriptions == nil {
		return ""
	}
	return *a.Inscriptions
}

// Pagination is the remote paging envelope. Values are trusted verbatim.
type Pagination struct {
	Total       int `json:"total"`
	Limit       int `json:"limit"`
	Offset      int `json:"offset"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// IsLast reports whether the page described by p is the last page of the
// collection.
func (p Pagination) IsLast() bool {
	return p.Offset+p.Limit >= p.Total
}

// Page is a decoded listing response.
type Page struct {
	Data       []Artwork  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Decode reads a listing body. A body without a data array or pagination
// object is rejected.
func Decode(r io.Reader) (*Page, error) {
	var raw struct {
		Data       *[]Artwork  `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("decode listing: missing data")
	}
	if raw.Pagination == nil {
		return nil, fmt.Errorf("decode listing: missing pagination")
	}
	return &Page{Data: *raw.Data, Pagination: *raw.Pagination}, nil
}
