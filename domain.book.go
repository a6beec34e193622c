package bookshop

// BookBase represents a book entity as listed by the remote store.
// The price comes preformatted from the backend so it stays an
// opaque string and is never parsed on this side.
type BookBase struct {
	ISBN13   string `json:"isbn13"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	URL      string `json:"url"`
}

// BookDetails extends BookBase with the fields returned by the
// book details endpoint. Optional fields arrive empty when the
// backend has no value for them. Desc may contain markup.
type BookDetails struct {
	BookBase
	Authors   string            `json:"authors,omitempty"`
	Publisher string            `json:"publisher,omitempty"`
	Language  string            `json:"language,omitempty"`
	Pages     string            `json:"pages,omitempty"`
	Year      string            `json:"year,omitempty"`
	Rating    string            `json:"rating,omitempty"`
	Desc      string            `json:"desc,omitempty"`
	PDF       map[string]string `json:"pdf,omitempty"`
}

// SearchResult holds the mapped outcome of a search call with
// numeric fields already parsed from their wire representation.
type SearchResult struct {
	Items []BookBase `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
}
