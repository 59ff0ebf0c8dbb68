package utils

import "github.com/gofrs/uuid/v5"

func NewUUID() string {
	return uuid.Must(uuid.NewV4()).String()
}
