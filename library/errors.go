package library

import "fmt"

type (
	BookNotFound struct {
		ID int64
	}
)

func (b BookNotFound) Error() string {
	return fmt.Sprintf("book %v not found", b.ID)
}
