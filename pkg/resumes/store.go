// Package resumes persists one resume text per user.
package resumes

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Store keeps the latest resume of each user. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the stored resume. found is false when the user has none.
	Get(ctx context.Context, user string) (text string, found bool, err error)
	// Put replaces the user's resume.
	Put(ctx context.Context, user, text string) (err error)
}

func checkPut(user, text string) (err error) {
	if strings.TrimSpace(user) == "" {
		err = errors.New("user id is required")
		return err
	}
	if strings.TrimSpace(text) == "" {
		err = errors.New("resume text is empty")
		return err
	}
	return err
}
