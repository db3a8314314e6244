package xdb

import (
	"errors"
	"fmt"

	"github.com/xdb-io/xdb/engine"
)

// ErrNilDocument is returned when Insert or the insert path of Upsert is
// given a nil document.
var ErrNilDocument = errors.New("xdb: nil document")

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, engine.ErrNilDocument) {
		return fmt.Errorf("%w: %w", ErrNilDocument, err)
	}
	return err
}
