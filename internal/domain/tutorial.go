package domain

// Tutorial is a catalog entry for a product walkthrough video.
type Tutorial struct {
	ID        string // stable identity, also the persistence key
	Title     string
	Summary   string
	SourceURL string

	// HomeRoute is the app route whose page carries a designated inline
	// slot for this tutorial. Navigating away from a home route while
	// playing inline triggers relocation to the floating overlay.
	HomeRoute string
}
