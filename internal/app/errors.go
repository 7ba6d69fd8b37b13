package app

import (
	"fmt"

	"github.com/cesargomez89/songbook/internal/domain"
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
