package generator

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// uuidNamespace seeds location-derived UUIDs.
var uuidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://getmockd.io/specmock"))

// stableUUID derives a UUID from the node location, so the same node always
// yields the same identifier.
func stableUUID(w Walker) string {
	return uuid.NewSHA1(uuidNamespace, []byte(w.Path())).String()
}

// stringByFormat maps OpenAPI string formats to representative values.
// It returns "" for formats it does not know.
func stringByFormat(format string, w Walker) string {
	epoch := w.Options().Epoch
	switch strings.ToLower(format) {
	case "email", "idn-email":
		return "user@example.com"
	case "uuid":
		return stableUUID(w)
	case "uri", "url", "iri", "uri-reference":
		return "https://example.com/resource"
	case "hostname", "idn-hostname":
		return "api.example.com"
	case "ipv4":
		return "192.0.2.10"
	case "ipv6":
		return "2001:db8::10"
	case "date-time":
		return epoch.Format(time.RFC3339)
	case "date":
		return epoch.Format(time.DateOnly)
	case "time":
		return epoch.Format("15:04:05Z07:00")
	case "duration":
		return "PT1H"
	case "phone":
		return "+1-555-010-0100"
	case "password":
		return "P@ssw0rd!"
	case "byte":
		return "ZXhhbXBsZQ=="
	case "binary":
		return "6578616d706c65"
	default:
		return ""
	}
}

// stringByFieldName maps common property names to realistic values.
//
//nolint:gocyclo // Large switch for heuristic mapping is clearer than splitting.
func stringByFieldName(name string, w Walker) string {
	lower := strings.ToLower(name)

	switch {
	case lower == "id" || lower == "uuid" || strings.HasSuffix(lower, "_uuid"):
		return stableUUID(w)
	case lower == "email" || strings.HasSuffix(lower, "_email") || strings.HasSuffix(lower, "email"):
		return "user@example.com"
	case lower == "phone" || lower == "mobile" || lower == "tel" || strings.HasSuffix(lower, "phone"):
		return "+1-555-010-0100"
	case lower == "name" || lower == "full_name" || lower == "fullname":
		return "Jane Smith"
	case lower == "first_name" || lower == "firstname" || lower == "given_name":
		return "Jane"
	case lower == "last_name" || lower == "lastname" || lower == "surname" || lower == "family_name":
		return "Smith"
	case lower == "username" || lower == "user_name" || lower == "login":
		return "jsmith"
	case lower == "address" || lower == "street" || lower == "street_address":
		return "100 Main St"
	case lower == "city":
		return "Springfield"
	case lower == "state" || lower == "province":
		return "Illinois"
	case lower == "country":
		return "US"
	case lower == "zip" || lower == "zipcode" || lower == "zip_code" || lower == "postal_code" || lower == "postalcode":
		return "62701"
	case lower == "company" || lower == "organization" || lower == "org":
		return "Acme Corp"
	case lower == "url" || lower == "uri" || lower == "href" || lower == "link" || lower == "website":
		return "https://example.com/resource"
	case lower == "ip" || lower == "ip_address" || lower == "ipaddress":
		return "192.0.2.10"
	case lower == "currency" || lower == "currency_code":
		return "USD"
	case lower == "color" || lower == "colour":
		return "Teal"
	case lower == "title" || lower == "job_title" || lower == "jobtitle":
		return "Senior Software Engineer"
	case lower == "description" || lower == "bio" || lower == "summary" || lower == "about":
		return "A short example description."
	case lower == "slug":
		return "example-slug"
	case strings.HasSuffix(lower, "_at") || lower == "created" || lower == "updated" ||
		strings.HasSuffix(lower, "date") || lower == "timestamp":
		return w.Options().Epoch.Format(time.RFC3339)
	}

	return ""
}
