package handlers

// Carousel is one horizontal product strip of the home page. Err is set when the
// category could not be loaded; the strip then shows an error panel of its own.
type Carousel struct {
	Key      string
	TitleKey string
	Icon     string
	Href     string
	Cards    any
	Err      *ErrorPanel
}

// HomeData is the view model for the home page.
type HomeData struct {
	Carousels []Carousel
}

// ErrorPanel is the inline failure notice with a retry action.
type ErrorPanel struct {
	TitleKey   string
	MessageKey string
	RetryURL   string
}
