package cli

import "errors"

var errNeedsYes = errors.New("refusing to delete without confirmation; pass --yes")
