package domain

// Category is the domain class assigned to an email address.
type Category string

const (
	CategoryCompany   Category = "Company/Private"
	CategoryAnonymous Category = "Anonymous/Privacy Service"
	CategoryPortal    Category = "Public Portal"
)

func (c Category) String() string {
	return string(c)
}
