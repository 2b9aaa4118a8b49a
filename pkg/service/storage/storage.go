package storage

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidURL = goerr.New("URL does not belong to this storage")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// sanitizeName keeps the base name readable but safe for object paths
func sanitizeName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	return base
}

// objectName builds a collision-free key grouped by category, e.g.
// "photo/0192f1c2-...-bomba.jpg"
func objectName(category, name string) string {
	category = unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(category)), "_")
	if category == "" {
		category = "misc"
	}
	return fmt.Sprintf("%s/%s-%s", category, uuid.Must(uuid.NewV7()).String(), sanitizeName(name))
}
