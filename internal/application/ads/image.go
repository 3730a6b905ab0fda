package ads

import "io"

// ImageBody is an upload stream with its length, as the blob store needs it.
type ImageBody struct {
	Reader io.Reader
	Size   int64
}
