package proposal

import "errors"

var ErrSaveFailed = errors.New("failed to save generated proposal")
