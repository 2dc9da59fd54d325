package cli

import (
	"fmt"

	"planboard-cli/internal/model"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind string, id model.ID) error {
	return notFoundError{kind: kind, id: id.String()}
}
