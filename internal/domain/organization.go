package domain

import "strings"

// OrganizationCookie is the cookie the web app sets to the last organization
// the user had open.
const OrganizationCookie = "lastActiveOrg"

// OrganizationFromCredential extracts the organization id carried by the
// credential cookie string, if any.
func OrganizationFromCredential(credential string) (string, bool) {
	for _, part := range strings.Split(credential, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || strings.TrimSpace(key) != OrganizationCookie {
			continue
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		return value, true
	}

	return "", false
}
