package pages

// Landmark is a heading that identifies a page in static HTML.
type Landmark struct {
	Tag  string
	Text string
}

// Route pairs a page's path with its landmarks.
type Route struct {
	Name      string
	Path      string
	Landmarks []Landmark
}

// Routes lists the pages of the site under test. It mirrors the heading
// locators of the page objects in a form usable without a browser.
func Routes() []Route {
	return []Route{
		{
			Name: "home",
			Path: "/",
			Landmarks: []Landmark{
				{Tag: "h1", Text: "Building Cutting-Edge Software"},
				{Tag: "h2", Text: "Why Choose Prism"},
				{Tag: "h2", Text: "Our Latest Products"},
			},
		},
		{
			Name: "about",
			Path: "/about",
			Landmarks: []Landmark{
				{Tag: "h1", Text: "About Prism"},
				{Tag: "h3", Text: "Our Mission"},
				{Tag: "h3", Text: "Our Vision"},
				{Tag: "h2", Text: "Smart Operations"},
			},
		},
		{
			Name: "contact",
			Path: "/contact",
			Landmarks: []Landmark{
				{Tag: "h1", Text: "Contact Us"},
				{Tag: "h2", Text: "Let's Connect"},
			},
		},
	}
}
