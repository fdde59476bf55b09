package validators

import (
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
)

// ParseID parses a positive numeric path parameter. Anything else is
// reported as not found: no resource can live at a malformed id.
func ParseID(raw, resource string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found").WithDetails(map[string]any{"id": raw})
	}
	return value, nil
}
