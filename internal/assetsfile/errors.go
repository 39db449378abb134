package assetsfile

import (
	"fmt"

	perr "github.com/provide-io/papers-modkit/internal/errors"
)

func errBadTypeID(obj ObjectInfo) error {
	return fmt.Errorf("object with path_id %d references out-of-range type_id %d: %w", obj.PathID, obj.TypeID, perr.ErrMalformedInput)
}
