package entity

// Order 1 is reserved for the preview image, which is never stored as a row:
// promoting an image to preview copies its source onto the ad and deletes it.
const (
	MinImageOrder = 2
	MaxImageOrder = 8
)

// AdImage is a gallery image row. An empty AdID means the image is uploaded
// but not yet attached to any ad; unattached rows are reclaimed by an
// out-of-process cleanup job.
type AdImage struct {
	ID     string
	Source string
	AdID   string
	Order  int
}

func (i AdImage) Assigned() bool {
	return i.AdID != ""
}
