package pixbin

// Result is the outcome of a conversion as a success flag and message.
type Result struct {
	err     error
	Message string
	Summary Summary
	Kind    Kind
	OK      bool
}

// Err returns the failure behind the result, or nil on success.
func (r Result) Err() error {
	return r.err
}

func newResult(sum Summary, err error) Result {
	if err != nil {
		return Result{
			OK:      false,
			Kind:    KindOf(err),
			Message: err.Error(),
			Summary: sum,
			err:     err,
		}
	}

	return Result{OK: true, Message: sum.String(), Summary: sum}
}

// ImageToContainer converts the image at src into a container at dst.
// An empty dst derives the path from src.
func ImageToContainer(src, dst string, includeMetadata bool) Result {
	return newResult(EncodeFile(src, dst, &EncodeOptions{IncludeMetadata: includeMetadata}))
}

// ContainerToImage converts the framed container at src into an image at dst.
// The output format follows the dst extension.
func ContainerToImage(src, dst string) Result {
	return newResult(DecodeFile(src, dst, nil))
}
