package camera

import "errors"

var (
	ErrNoDevice   = errors.New("no camera devices detected")
	ErrDeviceOpen = errors.New("unable to open camera device")
)
