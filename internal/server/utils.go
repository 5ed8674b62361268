package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/models"
)

const maxLimit = 100

// parseLimit returns 0 for an absent limit, meaning no limit.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return n, nil
}

// ParseBucket accepts "home" (or empty) and the two configured identifiers.
func ParseBucket(raw string, buckets config.Buckets) (models.Bucket, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || strings.EqualFold(raw, "home") || raw == "null":
		return models.BucketHome, nil
	case raw == buckets.A:
		return models.Bucket(buckets.A), nil
	case raw == buckets.B:
		return models.Bucket(buckets.B), nil
	}
	return models.BucketHome, fmt.Errorf("unknown bucket %q", raw)
}
