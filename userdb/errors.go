package userdb

import "fmt"

type (
	UserNotFound struct {
		Name string
	}

	UnsupportedDSN struct {
		DSN string
	}
)

func (u UserNotFound) Error() string {
	return fmt.Sprintf("user %v not found", u.Name)
}

func (u UnsupportedDSN) Error() string {
	return fmt.Sprintf("dsn %q does not point to a supported database", u.DSN)
}
