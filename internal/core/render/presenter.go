package render

// Presenter shows a finished frame on the display backend.
type Presenter interface {
	Present(c *Canvas) error
}
