// Package templates holds the bundled catalog of ready-made storybooks.
package templates

// Template is a pre-made storybook. Image and Document are paths of static
// assets served alongside the client.
type Template struct {
	ID          int
	Title       string
	Description string
	Image       string
	Document    string
}

var catalog = []Template{
	{
		ID:          1,
		Title:       "Dhoni's Dream Bat",
		Description: "The crowd cheered loudly as Dhoni lifted his bat...",
		Image:       "/thumbnails/dhoni's dream bat.jpg",
		Document:    "/Dhoni's Dream Bat.pdf",
	},
	{
		ID:          2,
		Title:       "Kiara and Sidharth's Happy Day",
		Description: "Today was a very special day for Kiara and Sidharth!",
		Image:       "/thumbnails/kiara and siddharth's happy day.jpg",
		Document:    "/Kiara and Sidharth's Happy Day.pdf",
	},
	{
		ID:          3,
		Title:       "The Sunshine Family Adventure",
		Description: "After a fun car ride, the Sunshine Family arrived...",
		Image:       "/thumbnails/the sunshine family adventure.jpg",
		Document:    "/The Sunshine Family's Golden Adventure.pdf",
	},
}

// All returns the catalog in display order.
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

// Find returns the template with the given ID.
func Find(id int) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
