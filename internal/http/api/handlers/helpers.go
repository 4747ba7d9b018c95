// Package handlers implements the REST endpoint handlers for the gym
// membership API.
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// Context keys populated by the auth middleware.
const (
	// CtxUserKey stores the authenticated *models.User.
	CtxUserKey = "currentUser"
	// CtxProfileKey stores the caller's *models.UserProfile, nil when absent.
	CtxProfileKey = "currentProfile"
)

// dateLayout is the wire format for date-only fields.
const dateLayout = "2006-01-02"

// getUser returns the authenticated user from the request context.
func getUser(c *gin.Context) *models.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// getProfile returns the caller's profile, or nil when no profile row exists.
func getProfile(c *gin.Context) *models.UserProfile {
	v, ok := c.Get(CtxProfileKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*models.UserProfile)
	return profile
}

// isGymAdmin reports whether the caller has an admin-flagged profile. A
// missing profile resolves to false, never to an error.
func isGymAdmin(c *gin.Context) bool {
	profile := getProfile(c)
	return profile != nil && profile.IsGymAdmin
}

// callerProfileID returns the caller's profile ID, or 0 when no profile
// exists. Scoped queries built on 0 match no rows.
func callerProfileID(c *gin.Context) uint64 {
	profile := getProfile(c)
	if profile == nil {
		return 0
	}
	return profile.ID
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDate parses a date-only wire value.
func parseDate(raw string) (time.Time, bool) {
	parsed, errParse := time.Parse(dateLayout, raw)
	if errParse != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}

// formatDate renders a date-only wire value.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// today returns the current UTC date with the time component dropped.
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
