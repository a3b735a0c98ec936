package archive

import "errors"

var errTruncatedChunk = errors.New("archive: chunk byte length is not a whole number of samples")
