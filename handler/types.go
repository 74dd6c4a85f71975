package handler

// Response types for the JSON API

// RootResponse is returned by /api
type RootResponse struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Variants  []string `json:"variants"`
	Endpoints []string `json:"endpoints"`
}

// HealthResponse is returned by /health
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// DecksResponse is returned by /decks
type DecksResponse struct {
	Decks []DeckInfo `json:"decks"`
	Count int        `json:"count"`
}

// DeckInfo summarizes a variant
type DeckInfo struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	SlideCount int    `json:"slideCount"`
}

// DeckResponse is returned by /decks/{variant}
type DeckResponse struct {
	DeckInfo
	Slides []SlideInfo `json:"slides"`
}

// SlideInfo describes one slide. Position drives numbering and backgrounds;
// Number is the authored citation and may differ.
type SlideInfo struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	Number     int    `json:"number"`
	Kind       string `json:"kind"`
	Headline   string `json:"headline"`
	Background int    `json:"background"`
	URL        string `json:"url"`
}

// ExportResponse is returned by POST /decks/{variant}/export
type ExportResponse struct {
	Written bool   `json:"written"`
	Key     string `json:"key,omitempty"`
	URL     string `json:"url,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	Size    int    `json:"size,omitempty"`
}

// ErrorResponse is returned for all error cases
type ErrorResponse struct {
	Error string `json:"error"`
}
