package utils

import (
	"github.com/google/uuid"
)

type contextKey string

// ContextAccessorKey holds the request's session accessor.
const ContextAccessorKey contextKey = "sessionAccessor"

func GenerateUUID() string {
	return uuid.New().String()
}
