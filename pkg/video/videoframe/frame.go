package videoframe

import "fmt"

type Dimensions struct {
	W, H int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// DefaultDimensions is the capture and display geometry used unless
// configured otherwise.
var DefaultDimensions = Dimensions{W: 640, H: 480}

type ColorFormat string

const (
	RGB ColorFormat = "RGB"
	BGR ColorFormat = "BGR"
)

type Frame interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Close()
}

// Formatted is implemented by frames which know their channel layout.
type Formatted interface {
	Format() ColorFormat
}
