package domain

// CustomerProfile holds trimmed, non-empty checkout form fields persisted
// after a successful order so the next checkout can be prepopulated. Partial
// profiles are valid.
type CustomerProfile = map[string]string

// ProfileFields is the allow-list of form fields that may be persisted.
var ProfileFields = []string{
	"firstName",
	"lastName",
	"middleName",
	"phoneNumber",
	"email",
	"city",
	"addressLine",
}
