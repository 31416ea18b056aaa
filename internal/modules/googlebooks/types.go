package googlebooks

// BookRecord is one normalized volume from the Google Books API.
// It is immutable once parsed from a response item.
type BookRecord struct {
	GoogleBooksID string `json:"google_books_id"`
	Title         string `json:"title"`
	Author        string `json:"author"` // comma-joined
	Publisher     string `json:"publisher"`
	PublishedDate string `json:"published_date"`
	Description   string `json:"description"`
	ISBN10        string `json:"isbn_10"`
	ISBN13        string `json:"isbn_13"`
	ImageURL      string `json:"image_url"`
	PageCount     int    `json:"page_count"`
	Language      string `json:"language"`
	Categories    string `json:"categories"` // comma-joined
}

// volumesResponse mirrors the API search payload.
type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	ImageLinks          imageLinks           `json:"imageLinks"`
	PageCount           int                  `json:"pageCount"`
	Language            string               `json:"language"`
	Categories          []string             `json:"categories"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	Large          string `json:"large"`
	Medium         string `json:"medium"`
	Small          string `json:"small"`
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}
