package errorx

import "fmt"

// Wrap annotates err with the operation name while keeping the
// original error available to errors.Is/As.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}
