package services

import "github.com/Kush-Singh-26/folio/builder/models"

// Aggregate concatenates the normalized posts of the three origins. An
// external post whose id is claimed by a static alias is dropped, so the
// static copy wins. No other de-duplication happens.
func Aggregate(static, admin, external []models.Post) []models.Post {
	claimed := make(map[string]bool)
	for _, p := range static {
		if p.ExternalRef != nil {
			claimed[*p.ExternalRef] = true
		}
	}

	out := make([]models.Post, 0, len(static)+len(admin)+len(external))
	out = append(out, static...)
	out = append(out, admin...)
	for _, p := range external {
		if claimed[p.PostID] {
			continue
		}
		out = append(out, p)
	}
	return out
}
