package preprocessing

import "errors"

var ErrTransformFailed = errors.New("transform failed")
