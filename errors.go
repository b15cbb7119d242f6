package pixbin

import "errors"

var (
	// ErrSourceNotFound indicates the source file does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnreadable indicates the source file exists but cannot be read.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrUnsupportedSourceFormat indicates the image decoder rejected the source.
	ErrUnsupportedSourceFormat = errors.New("unsupported source format")
	// ErrInvalidImageData indicates a RawImage violates its size invariant.
	ErrInvalidImageData = errors.New("invalid image data")
	// ErrUnsupportedMode indicates an unknown channel mode tag.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrSizeOverflow indicates pixel data does not fit the 32-bit DATA_SIZE field.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrTruncatedHeader indicates a framed container shorter than its header.
	ErrTruncatedHeader = errors.New("truncated header")
	// ErrSizeMismatch indicates DATA_SIZE differs from the trailing byte count.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrDimensionMismatch indicates pixel data length differs from width*height*bpp.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrMissingDimensions indicates a headerless container decoded without dimensions.
	ErrMissingDimensions = errors.New("missing dimensions")
	// ErrDestinationUnwritable indicates the destination file cannot be written.
	ErrDestinationUnwritable = errors.New("destination unwritable")
)

// Kind classifies conversion failures.
type Kind uint8

const (
	// KindNone is the kind of a nil error.
	KindNone Kind = iota
	KindSourceNotFound
	KindSourceUnreadable
	KindUnsupportedSourceFormat
	KindInvalidImageData
	KindUnsupportedMode
	KindSizeOverflow
	KindTruncatedHeader
	KindSizeMismatch
	KindDimensionMismatch
	KindMissingDimensions
	KindDestinationUnwritable
	// KindUnknown is the kind of any error not produced by this package.
	KindUnknown
)

var kindTable = [...]struct {
	err  error
	name string
}{
	KindNone:                    {nil, "None"},
	KindSourceNotFound:          {ErrSourceNotFound, "SourceNotFound"},
	KindSourceUnreadable:        {ErrSourceUnreadable, "SourceUnreadable"},
	KindUnsupportedSourceFormat: {ErrUnsupportedSourceFormat, "UnsupportedSourceFormat"},
	KindInvalidImageData:        {ErrInvalidImageData, "InvalidImageData"},
	KindUnsupportedMode:         {ErrUnsupportedMode, "UnsupportedMode"},
	KindSizeOverflow:            {ErrSizeOverflow, "SizeOverflow"},
	KindTruncatedHeader:         {ErrTruncatedHeader, "TruncatedHeader"},
	KindSizeMismatch:            {ErrSizeMismatch, "SizeMismatch"},
	KindDimensionMismatch:       {ErrDimensionMismatch, "DimensionMismatch"},
	KindMissingDimensions:       {ErrMissingDimensions, "MissingDimensions"},
	KindDestinationUnwritable:   {ErrDestinationUnwritable, "DestinationUnwritable"},
	KindUnknown:                 {nil, "Unknown"},
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindTable) {
		return kindTable[k].name
	}

	return kindTable[KindUnknown].name
}

// Err returns the sentinel error for the kind, or nil for KindNone and KindUnknown.
func (k Kind) Err() error {
	if int(k) < len(kindTable) {
		return kindTable[k].err
	}

	return nil
}

// KindOf reports which kind of failure err carries.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	for k := KindSourceNotFound; k < KindUnknown; k++ {
		if errors.Is(err, kindTable[k].err) {
			return k
		}
	}

	return KindUnknown
}
