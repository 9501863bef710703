package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/pkg/errors"
)

// Firestore "in" filters accept at most 30 values.
const firestoreInLimit = 30

// translateWriteError maps a transaction or write result onto the AppError
// taxonomy. AppErrors raised inside the transaction pass through untouched.
func translateWriteError(err error, conflictMessage, internalMessage string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	if status.Code(err) == codes.AlreadyExists && conflictMessage != "" {
		return errors.Conflict(conflictMessage)
	}
	return errors.Internal(internalMessage, err)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func chunkStrings(values []string, size int) [][]string {
	var chunks [][]string
	for size < len(values) {
		values, chunks = values[size:], append(chunks, values[:size])
	}
	if len(values) > 0 {
		chunks = append(chunks, values)
	}
	return chunks
}
