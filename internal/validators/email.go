package validators

import "regexp"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmailShapeValid performs a basic shape check only. The booking flow uses
// it to decide whether the customer copy of a notification is worth sending;
// it is not a deliverability guarantee.
func IsEmailShapeValid(email string) bool {
	return emailShape.MatchString(email)
}
