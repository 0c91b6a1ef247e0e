package models

import "errors"

var ErrModelBuildFailed = errors.New("model build failed")
